package create_request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	ccaRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/cca"
	venueRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/venue"
	"github.com/keviiweb/VBS-sub000/internal/service/audit"
	"github.com/keviiweb/VBS-sub000/pkg/types"
)

// UseCase use case для создания заявки на бронирование
type UseCase struct {
	requestRepo  RequestRepository
	venueRepo    VenueRepository
	ccaRepo      CCARepository
	resolver     ConflictResolver
	txManager    TransactionManager
	audit        AuditLogger
	timeProvider TimeProvider
	logger       Logger
	storeTimeout time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	requestRepo RequestRepository,
	venueRepo VenueRepository,
	ccaRepo CCARepository,
	resolver ConflictResolver,
	txManager TransactionManager,
	auditLog AuditLogger,
	logger Logger,
	storeTimeout time.Duration,
) *UseCase {
	return &UseCase{
		requestRepo:  requestRepo,
		venueRepo:    venueRepo,
		ccaRepo:      ccaRepo,
		resolver:     resolver,
		txManager:    txManager,
		audit:        auditLog,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// Execute выполняет use case создания заявки
// Проверка дубликатов, занятых слотов и вставка выполняются в одной сериализуемой транзакции.
// Повторяющаяся заявка создаётся целиком или не создаётся вовсе.
// Все обращения к хранилищу ограничены storeTimeout
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRequest: email=%s, venue=%s, date=%s, slots=%s, cca=%s, repeatUntil=%s",
		req.Email, req.VenueID, req.Date, req.TimingSlots, req.CCAID, req.RepeatUntil)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и повторения
	first, err := domain.ParseDay(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dates, err := expandDates(first, req.RepeatUntil, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("CreateRequest: date validation failed: %v", err)
		return nil, err
	}

	storeCtx := ctx
	if uc.storeTimeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, uc.storeTimeout)
		defer cancel()
	}

	// 3. Площадка
	venue, err := uc.venueRepo.GetByID(storeCtx, req.VenueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("CreateRequest: venue id=%s not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateRequest: failed to get venue id=%s: %v", req.VenueID, err)
		return nil, storeError("get venue", err)
	}
	if !venue.IsBookable() {
		uc.logger.Warn("CreateRequest: venue id=%s is not bookable", req.VenueID)
		return nil, ErrVenueNotBookable
	}

	layout, err := venue.SlotLayout()
	if err != nil {
		uc.logger.Error("CreateRequest: venue id=%s has invalid hours: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: venue layout: %v", ErrInternal, err)
	}

	// 4. Слоты
	slots, err := parseSlots(layout, req.TimingSlots)
	if err != nil {
		uc.logger.Warn("CreateRequest: %v", err)
		return nil, err
	}

	// 5. CCA (для личных заявок не проверяется)
	if req.CCAID != domain.PersonalCCA {
		if _, err := uc.ccaRepo.GetByID(storeCtx, req.CCAID); err != nil {
			if errors.Is(err, ccaRepo.ErrCCANotFound) {
				uc.logger.Warn("CreateRequest: cca id=%s not found", req.CCAID)
				return nil, ErrCCANotFound
			}
			uc.logger.Error("CreateRequest: failed to get cca id=%s: %v", req.CCAID, err)
			return nil, storeError("get cca", err)
		}
	}

	var created []*domain.BookingRequest

	// 6. Проверки и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
		created = make([]*domain.BookingRequest, 0, len(dates))

		for _, date := range dates {
			candidate := &domain.BookingRequest{
				VenueID:     req.VenueID,
				Date:        date,
				TimingSlots: domain.FormatSlots(slots),
				Email:       req.Email,
				CCAID:       req.CCAID,
				Purpose:     strings.TrimSpace(req.Purpose),
				Status:      domain.StatusPending,
			}

			// 6.1. Дубликат того же владельца
			duplicates, err := uc.resolver.FindDuplicates(txCtx, layout, candidate, slots)
			if err != nil {
				uc.logger.Error("CreateRequest: duplicate check failed: %v", err)
				return storeError("duplicate check", err)
			}
			if len(duplicates) > 0 {
				uc.logger.Warn("CreateRequest: duplicate of request id=%s on %s", duplicates[0].ID, date)
				return fmt.Errorf("%w: request %s on %s", ErrDuplicateRequest, duplicates[0].ID, date)
			}

			// 6.2. Подтверждённые слоты
			confirmed, err := uc.resolver.FindConfirmedConflicts(txCtx, req.VenueID, date, slots)
			if err != nil {
				uc.logger.Error("CreateRequest: confirmed slots check failed: %v", err)
				return storeError("confirmed slots check", err)
			}
			if len(confirmed) > 0 {
				uc.logger.Warn("CreateRequest: slot %d on %s is already booked", confirmed[0].Slot, date)
				return fmt.Errorf("%w: slot %d on %s", ErrSlotNotAvailable, confirmed[0].Slot, date)
			}

			// 6.3. Вставка
			result, err := uc.requestRepo.Create(txCtx, candidate)
			if err != nil {
				uc.logger.Error("CreateRequest: failed to create request: %v", err)
				return storeError("create request", err)
			}
			created = append(created, result)
		}

		return nil
	})
	if err != nil {
		if !isUseCaseError(err) {
			uc.logger.Error("CreateRequest: transaction failed: %v", err)
			err = storeError("transaction", err)
		}
		uc.audit.Log(context.WithoutCancel(ctx), audit.OpError, req.Email, fmt.Sprintf(
			"create request for venue %s on %s failed: %v", req.VenueID, req.Date, err))
		return nil, err
	}

	labels, err := layout.Labels(slots)
	if err != nil {
		return nil, fmt.Errorf("%w: slot labels: %v", ErrInternal, err)
	}

	response := &Response{Requests: make([]CreatedRequest, 0, len(created))}
	for _, r := range created {
		uc.audit.Log(context.WithoutCancel(ctx), audit.OpCreate, r.Email, fmt.Sprintf(
			"created request %s for venue %s on %s slots %s", r.ID, r.VenueID, r.Date, r.TimingSlots))

		response.Requests = append(response.Requests, CreatedRequest{
			ID:          r.ID,
			VenueID:     r.VenueID,
			Date:        r.Date.String(),
			TimingSlots: r.TimingSlots,
			SlotLabels:  toStrings(labels),
			Email:       r.Email,
			CCAID:       r.CCAID,
			Purpose:     r.Purpose,
			Status:      r.Status.String(),
			CreatedAt:   r.CreatedAt,
		})
	}

	uc.logger.Info("CreateRequest: successfully created %d request(s)", len(created))
	return response, nil
}

// storeError оборачивает ошибку хранилища, включая истечение storeTimeout
func storeError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, step, err)
}

// isUseCaseError проверяет, что ошибка уже приведена к ошибкам use case
func isUseCaseError(err error) bool {
	for _, target := range []error{
		ErrStoreUnavailable,
		ErrDuplicateRequest,
		ErrSlotNotAvailable,
		ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func toStrings(labels []types.TimeString) []string {
	result := make([]string, len(labels))
	for i, l := range labels {
		result[i] = l.String()
	}
	return result
}
