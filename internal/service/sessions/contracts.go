package sessions

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// SessionRepository интерфейс репозитория сессий CCA
type SessionRepository interface {
	Create(ctx context.Context, s *domain.CCASession) (*domain.CCASession, error)
	GetByID(ctx context.Context, id string) (*domain.CCASession, error)
	FindByCCAAndDate(ctx context.Context, ccaID string, date domain.Day) ([]*domain.CCASession, error)
	Update(ctx context.Context, s *domain.CCASession) (*domain.CCASession, error)
}

// CCARepository интерфейс репозитория CCA
type CCARepository interface {
	GetByID(ctx context.Context, id string) (*domain.CCA, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditLogger журнал аудита
type AuditLogger interface {
	Log(ctx context.Context, operation, actor, message string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
