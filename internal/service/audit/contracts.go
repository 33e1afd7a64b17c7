package audit

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Repository интерфейс хранилища журнала аудита
type Repository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// Metrics счётчики журнала аудита
type Metrics interface {
	IncAuditDropped()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
