package create_session

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/sessions/models"
)

type SessionService interface {
	Create(ctx context.Context, input models.CreateSessionInput) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
