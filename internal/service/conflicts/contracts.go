package conflicts

import (
	"context"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// RequestRepository интерфейс чтения заявок
type RequestRepository interface {
	FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day, statuses ...domain.RequestStatus) ([]*domain.BookingRequest, error)
}

// BookingRepository интерфейс чтения подтверждённых слотов
type BookingRepository interface {
	FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day) ([]*domain.VenueBooking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
