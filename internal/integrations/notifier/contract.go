package notifier

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Channel канал доставки уведомлений
type Channel interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

// VenueLookup получение площадки для обогащения события
type VenueLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
}

// CCALookup получение CCA для обогащения события
type CCALookup interface {
	GetByID(ctx context.Context, id string) (*domain.CCA, error)
}

// Metrics счётчики доставки уведомлений
type Metrics interface {
	IncNotification(event, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
