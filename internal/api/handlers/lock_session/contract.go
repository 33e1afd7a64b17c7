package lock_session

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/sessions/models"
)

type SessionService interface {
	Lock(ctx context.Context, sessionID string, actor string) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
