package get_venue_slots

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
}

// BookingRepository интерфейс репозитория подтверждённых слотов
type BookingRepository interface {
	FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day) ([]*domain.VenueBooking, error)
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	FindPending(ctx context.Context, venueID string, date domain.Day) ([]*domain.BookingRequest, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
