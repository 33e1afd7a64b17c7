package update_session

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/sessions/models"
)

type SessionService interface {
	Update(ctx context.Context, input models.UpdateSessionInput) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
