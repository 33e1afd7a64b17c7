package approve_request

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
)

type RequestService interface {
	Approve(ctx context.Context, requestID string, approver string) (*models.ApproveResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
