package requests

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BookingRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.BookingRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.BookingRequest, error)
	Update(ctx context.Context, id string, patch domain.RequestPatch, expectedVersion int64) (*domain.BookingRequest, error)
	DeleteAllByVenue(ctx context.Context, venueID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// BookingRepository интерфейс репозитория подтверждённых слотов
type BookingRepository interface {
	CreateSlot(ctx context.Context, booking *domain.VenueBooking) (*domain.VenueBooking, error)
	DeleteByRequestID(ctx context.Context, requestID string) (int64, error)
	DeleteAllByVenue(ctx context.Context, venueID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
}

// ConflictResolver поиск конфликтующих заявок и слотов
type ConflictResolver interface {
	FindOverlappingRequests(ctx context.Context, layout domain.SlotLayout, request *domain.BookingRequest, statuses ...domain.RequestStatus) ([]*domain.BookingRequest, error)
	FindConfirmedConflicts(ctx context.Context, venueID string, date domain.Day, slots domain.SlotSet) ([]*domain.VenueBooking, error)
}

// Notifier фоновая доставка уведомлений
type Notifier interface {
	NotifyApproved(req *domain.BookingRequest, approver string) error
	NotifyRejected(req *domain.BookingRequest, reason string) error
	NotifyCancelled(req *domain.BookingRequest) error
	NotifySlotFreed(req *domain.BookingRequest) error
}

// AuditLogger журнал аудита
type AuditLogger interface {
	Log(ctx context.Context, operation, actor, message string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики переходов заявок
type Metrics interface {
	IncTransition(status, outcome string)
	AddCascadedRejections(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
