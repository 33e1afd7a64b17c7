package cancel_request

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
)

type RequestService interface {
	Cancel(ctx context.Context, requestID string, actor string) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
