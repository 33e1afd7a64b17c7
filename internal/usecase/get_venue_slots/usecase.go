package get_venue_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	venueRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/venue"
)

// UseCase use case для получения слотов площадки на дату
type UseCase struct {
	venueRepo   VenueRepository
	bookingRepo BookingRepository
	requestRepo RequestRepository
	logger      Logger

	storeTimeout time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	venueRepo VenueRepository,
	bookingRepo BookingRepository,
	requestRepo RequestRepository,
	logger Logger,
	storeTimeout time.Duration,
) *UseCase {
	return &UseCase{
		venueRepo:    venueRepo,
		bookingRepo:  bookingRepo,
		requestRepo:  requestRepo,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// Execute выполняет use case получения слотов площадки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetVenueSlots: venue=%s, date=%s", req.VenueID, req.Date)

	// 1. Валидация входных данных
	if req.VenueID == "" {
		return nil, fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	date, err := domain.ParseDay(req.Date)
	if err != nil {
		uc.logger.Warn("GetVenueSlots: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Все обращения к хранилищу укладываются в один таймаут
	if uc.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.storeTimeout)
		defer cancel()
	}

	// 2. Площадка и разбиение её дня
	venue, err := uc.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("GetVenueSlots: venue id=%s not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("GetVenueSlots: failed to get venue id=%s: %v", req.VenueID, err)
		return nil, storeError("get venue", err)
	}

	layout, err := venue.SlotLayout()
	if err != nil {
		uc.logger.Error("GetVenueSlots: venue id=%s has invalid hours: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: venue layout: %v", ErrInternal, err)
	}

	// 3. Подтверждённые слоты
	bookings, err := uc.bookingRepo.FindByVenueAndDate(ctx, req.VenueID, date)
	if err != nil {
		uc.logger.Error("GetVenueSlots: failed to get bookings: %v", err)
		return nil, storeError("get bookings", err)
	}

	// 4. Ожидающие заявки
	pending, err := uc.requestRepo.FindPending(ctx, req.VenueID, date)
	if err != nil {
		uc.logger.Error("GetVenueSlots: failed to get pending requests: %v", err)
		return nil, storeError("get pending requests", err)
	}

	// 5. Состояние каждого слота
	slots, err := buildSlots(layout, bookings, pending, uc.logger)
	if err != nil {
		uc.logger.Error("GetVenueSlots: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetVenueSlots: generated %d slots for venue=%s, date=%s", len(slots), req.VenueID, date)

	return &Response{
		VenueID:   venue.ID,
		VenueName: venue.Name,
		Date:      date.String(),
		Slots:     slots,
	}, nil
}

func storeError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, step, err)
}
