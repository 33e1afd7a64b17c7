package create_request

import (
	"context"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error)
}

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
}

// CCARepository интерфейс репозитория CCA
type CCARepository interface {
	GetByID(ctx context.Context, id string) (*domain.CCA, error)
}

// ConflictResolver проверки дубликатов и занятых слотов
type ConflictResolver interface {
	FindDuplicates(ctx context.Context, layout domain.SlotLayout, candidate *domain.BookingRequest, slots domain.SlotSet) ([]*domain.BookingRequest, error)
	FindConfirmedConflicts(ctx context.Context, venueID string, date domain.Day, slots domain.SlotSet) ([]*domain.VenueBooking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditLogger журнал аудита
type AuditLogger interface {
	Log(ctx context.Context, operation, actor, message string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
