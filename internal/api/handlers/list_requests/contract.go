package list_requests

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
)

type RequestService interface {
	ListByStatus(ctx context.Context, status string) (*models.RequestListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
