package find_conflicts

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
)

type RequestService interface {
	FindConflicts(ctx context.Context, requestID string) (*models.ConflictsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
