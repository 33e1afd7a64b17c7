package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	bookingRequestRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/bookingrequest"
	venueRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/venue"
	venueBookingRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/venuebooking"
	"github.com/keviiweb/VBS-sub000/internal/service/audit"
	"github.com/keviiweb/VBS-sub000/internal/service/conflicts"
	"github.com/keviiweb/VBS-sub000/internal/service/requests/models"
	"github.com/keviiweb/VBS-sub000/pkg/txmanager"
)

// Исходы переходов для метрик
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// Service машина состояний заявок: одобрение, отклонение, отмена и поиск конфликтов
type Service struct {
	requestRepo  RequestRepository
	bookingRepo  BookingRepository
	venueRepo    VenueRepository
	resolver     ConflictResolver
	notifier     Notifier
	audit        AuditLogger
	txManager    TransactionManager
	metrics      Metrics
	logger       Logger
	storeTimeout time.Duration
}

// NewService создает новый экземпляр сервиса заявок
// storeTimeout ограничивает одну попытку операции с хранилищем (вместе с транзакцией)
func NewService(
	requestRepo RequestRepository,
	bookingRepo BookingRepository,
	venueRepo VenueRepository,
	resolver ConflictResolver,
	notifier Notifier,
	auditLog AuditLogger,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	storeTimeout time.Duration,
) *Service {
	return &Service{
		requestRepo:  requestRepo,
		bookingRepo:  bookingRepo,
		venueRepo:    venueRepo,
		resolver:     resolver,
		notifier:     notifier,
		audit:        auditLog,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// approveResult результат зафиксированной транзакции одобрения
type approveResult struct {
	approved *domain.BookingRequest
	cascaded []*domain.BookingRequest
}

// Approve одобряет ожидающую заявку
// В одной SERIALIZABLE транзакции: блокирует заявку, проверяет, что её слоты не заняты
// подтверждёнными бронированиями, отклоняет все пересекающиеся ожидающие заявки,
// переводит заявку в approved и материализует по одной записи VenueBooking на слот.
// Уведомления и аудит отправляются только после фиксации
func (s *Service) Approve(ctx context.Context, requestID string, approver string) (*models.ApproveResponse, error) {
	s.logger.Info("Approve: approving request id=%s by %s", requestID, approver)

	var result *approveResult
	err := s.withRetry(ctx, "Approve", requestID, func(ctx context.Context) error {
		var err error
		result, err = s.approveOnce(ctx, requestID, approver)
		return err
	})
	if err != nil {
		s.fail(ctx, "Approve", requestID, approver, domain.StatusApproved, err)
		return nil, err
	}

	// После фиксации отмена контекста вызывающего уже ни на что не влияет
	postCtx := context.WithoutCancel(ctx)

	s.metrics.IncTransition(domain.StatusApproved.String(), outcomeOK)
	s.metrics.AddCascadedRejections(len(result.cascaded))

	s.notify("Approve", requestID, s.notifier.NotifyApproved(result.approved, approver))
	s.audit.Log(postCtx, audit.OpApprove, approver, fmt.Sprintf(
		"approved request %s (venue=%s date=%s slots=%s), cascaded rejections: %d",
		requestID, result.approved.VenueID, result.approved.Date, result.approved.TimingSlots, len(result.cascaded)))

	for _, rejected := range result.cascaded {
		s.notify("Approve", rejected.ID, s.notifier.NotifyRejected(rejected, domain.ConflictRejectionReason))
		s.audit.Log(postCtx, audit.OpReject, domain.SystemActor, fmt.Sprintf(
			"rejected request %s: %s (approved %s)", rejected.ID, domain.ConflictRejectionReason, requestID))
	}

	s.logger.Info("Approve: request id=%s approved, %d conflicting requests rejected", requestID, len(result.cascaded))

	return &models.ApproveResponse{
		Request:            *models.FromDomainRequest(result.approved),
		CascadedRejections: models.FromDomainRequestList(result.cascaded),
	}, nil
}

func (s *Service) approveOnce(ctx context.Context, requestID string, approver string) (*approveResult, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	result := &approveResult{}
	err := s.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
		req, err := s.requestRepo.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return s.storeError("Approve", "load request", err)
		}

		if !req.Status.CanTransitionTo(domain.StatusApproved) {
			s.logger.Warn("Approve: request id=%s is %s, cannot approve", requestID, req.Status)
			return fmt.Errorf("%w: request %s is %s", ErrInvalidTransition, requestID, req.Status)
		}

		layout, err := s.layoutFor(txCtx, req.VenueID)
		if err != nil {
			return err
		}

		slots, err := req.Slots(layout)
		if err != nil {
			s.logger.Error("Approve: request id=%s has malformed slots %q: %v", requestID, req.TimingSlots, err)
			return fmt.Errorf("%w: request %s: %v", ErrMalformedSlotData, requestID, err)
		}

		// Слоты уже могли быть заняты подтверждённым бронированием: одобрять нельзя
		confirmed, err := s.resolver.FindConfirmedConflicts(txCtx, req.VenueID, req.Date, slots)
		if err != nil {
			return s.storeError("Approve", "find confirmed conflicts", err)
		}
		if len(confirmed) > 0 {
			s.logger.Warn("Approve: request id=%s slots already confirmed for request %s", requestID, confirmed[0].RequestID)
			return fmt.Errorf("%w: slot %d is held by request %s", ErrAlreadyResolved, confirmed[0].Slot, confirmed[0].RequestID)
		}

		overlapping, err := s.resolver.FindOverlappingRequests(txCtx, layout, req, domain.StatusPending)
		if err != nil {
			return s.storeError("Approve", "find overlapping requests", err)
		}

		cascaded := make([]*domain.BookingRequest, 0, len(overlapping))
		cascadedIDs := make([]string, 0, len(overlapping))
		for _, other := range overlapping {
			rejected, err := s.rejectLocked(txCtx, other, domain.ConflictRejectionReason, domain.SystemActor)
			if err != nil {
				return err
			}
			cascaded = append(cascaded, rejected)
			cascadedIDs = append(cascadedIDs, rejected.ID)
		}

		approved, err := s.requestRepo.Update(txCtx, req.ID, domain.RequestPatch{
			Status:          domain.StatusApproved,
			DecidedBy:       &approver,
			ConflictRequest: cascadedIDs,
		}, req.Version)
		if err != nil {
			return s.storeError("Approve", "update request", err)
		}

		for _, slot := range slots {
			_, err := s.bookingRepo.CreateSlot(txCtx, &domain.VenueBooking{
				VenueID:   approved.VenueID,
				Date:      approved.Date,
				Slot:      slot,
				RequestID: approved.ID,
				Email:     approved.Email,
				CCAID:     approved.CCAID,
				Purpose:   approved.Purpose,
				BookedBy:  approver,
			})
			if err != nil {
				return s.storeError("Approve", fmt.Sprintf("materialize slot %d", slot), err)
			}
		}

		result.approved = approved
		result.cascaded = cascaded
		return nil
	})
	if err != nil {
		return nil, s.storeError("Approve", "transaction", err)
	}

	return result, nil
}

// Reject отклоняет ожидающую заявку с обязательной причиной
func (s *Service) Reject(ctx context.Context, requestID string, reason string, actor string) (*models.RequestResponse, error) {
	s.logger.Info("Reject: rejecting request id=%s by %s", requestID, actor)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		s.logger.Warn("Reject: empty reason for request id=%s", requestID)
		s.fail(ctx, "Reject", requestID, actor, domain.StatusRejected, ErrMissingReason)
		return nil, ErrMissingReason
	}
	if len(reason) > domain.MaxReasonLength {
		err := fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
		s.fail(ctx, "Reject", requestID, actor, domain.StatusRejected, err)
		return nil, err
	}

	var rejected *domain.BookingRequest
	err := s.withRetry(ctx, "Reject", requestID, func(ctx context.Context) error {
		storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		err := s.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
			req, err := s.requestRepo.GetByIDForUpdate(txCtx, requestID)
			if err != nil {
				return s.storeError("Reject", "load request", err)
			}
			rejected, err = s.rejectLocked(txCtx, req, reason, actor)
			return err
		})
		if err != nil {
			return s.storeError("Reject", "transaction", err)
		}
		return nil
	})
	if err != nil {
		s.fail(ctx, "Reject", requestID, actor, domain.StatusRejected, err)
		return nil, err
	}

	s.metrics.IncTransition(domain.StatusRejected.String(), outcomeOK)
	s.notify("Reject", requestID, s.notifier.NotifyRejected(rejected, reason))
	s.audit.Log(context.WithoutCancel(ctx), audit.OpReject, actor, fmt.Sprintf("rejected request %s: %s", requestID, reason))

	s.logger.Info("Reject: request id=%s rejected", requestID)
	return models.FromDomainRequest(rejected), nil
}

// rejectLocked общий путь отклонения для Reject и каскада в Approve
// Вызывается внутри транзакции для уже загруженной заявки
func (s *Service) rejectLocked(ctx context.Context, req *domain.BookingRequest, reason string, actor string) (*domain.BookingRequest, error) {
	if !req.Status.CanTransitionTo(domain.StatusRejected) {
		s.logger.Warn("reject: request id=%s is %s, cannot reject", req.ID, req.Status)
		return nil, fmt.Errorf("%w: request %s is %s", ErrInvalidTransition, req.ID, req.Status)
	}

	rejected, err := s.requestRepo.Update(ctx, req.ID, domain.RequestPatch{
		Status:    domain.StatusRejected,
		Reason:    &reason,
		DecidedBy: &actor,
	}, req.Version)
	if err != nil {
		return nil, s.storeError("reject", "update request "+req.ID, err)
	}

	return rejected, nil
}

// Cancel отменяет ожидающую или одобренную заявку
// Отмена одобренной заявки в той же транзакции освобождает её слоты
func (s *Service) Cancel(ctx context.Context, requestID string, actor string) (*models.RequestResponse, error) {
	s.logger.Info("Cancel: cancelling request id=%s by %s", requestID, actor)

	var (
		cancelled   *domain.BookingRequest
		wasApproved bool
		freed       int64
	)
	err := s.withRetry(ctx, "Cancel", requestID, func(ctx context.Context) error {
		storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		err := s.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
			req, err := s.requestRepo.GetByIDForUpdate(txCtx, requestID)
			if err != nil {
				return s.storeError("Cancel", "load request", err)
			}

			if !req.Status.CanTransitionTo(domain.StatusCancelled) {
				s.logger.Warn("Cancel: request id=%s is %s, cannot cancel", requestID, req.Status)
				return fmt.Errorf("%w: request %s is %s", ErrInvalidTransition, requestID, req.Status)
			}
			wasApproved = req.Status == domain.StatusApproved

			cancelled, err = s.requestRepo.Update(txCtx, req.ID, domain.RequestPatch{
				Status:    domain.StatusCancelled,
				DecidedBy: &actor,
			}, req.Version)
			if err != nil {
				return s.storeError("Cancel", "update request", err)
			}

			freed = 0
			if wasApproved {
				freed, err = s.bookingRepo.DeleteByRequestID(txCtx, req.ID)
				if err != nil {
					return s.storeError("Cancel", "release slots", err)
				}
			}
			return nil
		})
		if err != nil {
			return s.storeError("Cancel", "transaction", err)
		}
		return nil
	})
	if err != nil {
		s.fail(ctx, "Cancel", requestID, actor, domain.StatusCancelled, err)
		return nil, err
	}

	s.metrics.IncTransition(domain.StatusCancelled.String(), outcomeOK)
	s.notify("Cancel", requestID, s.notifier.NotifyCancelled(cancelled))
	if wasApproved {
		s.notify("Cancel", requestID, s.notifier.NotifySlotFreed(cancelled))
	}
	s.audit.Log(context.WithoutCancel(ctx), audit.OpCancel, actor, fmt.Sprintf(
		"cancelled request %s, released %d slots", requestID, freed))

	s.logger.Info("Cancel: request id=%s cancelled, released %d slots", requestID, freed)
	return models.FromDomainRequest(cancelled), nil
}

// FindConflicts возвращает другие pending/approved заявки той же площадки и даты,
// пересекающиеся с заявкой по слотам. Ничего не изменяет
func (s *Service) FindConflicts(ctx context.Context, requestID string) (*models.ConflictsResponse, error) {
	s.logger.Info("FindConflicts: searching conflicts for request id=%s", requestID)

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var overlapping []*domain.BookingRequest
	err := s.txManager.DoReadOnly(storeCtx, func(txCtx context.Context) error {
		req, err := s.requestRepo.GetByID(txCtx, requestID)
		if err != nil {
			return s.storeError("FindConflicts", "load request", err)
		}

		layout, err := s.layoutFor(txCtx, req.VenueID)
		if err != nil {
			return err
		}

		overlapping, err = s.resolver.FindOverlappingRequests(txCtx, layout, req, domain.ActiveStatuses...)
		if err != nil {
			return s.storeError("FindConflicts", "find overlapping requests", err)
		}
		return nil
	})
	if err != nil {
		err = s.storeError("FindConflicts", "transaction", err)
		s.logger.Warn("FindConflicts: request id=%s failed: %v", requestID, err)
		return nil, err
	}

	s.logger.Info("FindConflicts: request id=%s has %d conflicts", requestID, len(overlapping))
	return &models.ConflictsResponse{
		RequestID: requestID,
		Conflicts: models.FromDomainRequestList(overlapping),
	}, nil
}

// GetByID получает заявку по ID
func (s *Service) GetByID(ctx context.Context, requestID string) (*models.RequestResponse, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	req, err := s.requestRepo.GetByID(storeCtx, requestID)
	if err != nil {
		if errors.Is(err, bookingRequestRepo.ErrRequestNotFound) {
			s.logger.Warn("GetByID: request id=%s not found", requestID)
		}
		return nil, s.storeError("GetByID", "load request", err)
	}

	return models.FromDomainRequest(req), nil
}

// ListByStatus получает все заявки в статусе
func (s *Service) ListByStatus(ctx context.Context, status string) (*models.RequestListResponse, error) {
	domainStatus, ok := domain.ParseRequestStatus(status)
	if !ok {
		s.logger.Warn("ListByStatus: invalid status=%s", status)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	list, err := s.requestRepo.ListByStatus(storeCtx, domainStatus)
	if err != nil {
		return nil, s.storeError("ListByStatus", "list requests", err)
	}

	s.logger.Info("ListByStatus: fetched %d %s requests", len(list), domainStatus)
	return &models.RequestListResponse{Requests: models.FromDomainRequestList(list)}, nil
}

// PurgeVenue удаляет все заявки и подтверждённые слоты площадки
func (s *Service) PurgeVenue(ctx context.Context, venueID string, actor string) (*models.PurgeResponse, error) {
	return s.purge(ctx, "PurgeVenue", actor, "venue "+venueID,
		func(ctx context.Context) (int64, error) { return s.bookingRepo.DeleteAllByVenue(ctx, venueID) },
		func(ctx context.Context) (int64, error) { return s.requestRepo.DeleteAllByVenue(ctx, venueID) },
	)
}

// PurgeAll удаляет все заявки и подтверждённые слоты
func (s *Service) PurgeAll(ctx context.Context, actor string) (*models.PurgeResponse, error) {
	return s.purge(ctx, "PurgeAll", actor, "all venues",
		s.bookingRepo.DeleteAll,
		s.requestRepo.DeleteAll,
	)
}

func (s *Service) purge(
	ctx context.Context,
	op, actor, scope string,
	deleteBookings, deleteRequests func(ctx context.Context) (int64, error),
) (*models.PurgeResponse, error) {
	s.logger.Warn("%s: purging %s by %s", op, scope, actor)

	result := &models.PurgeResponse{}
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		if result.DeletedBookings, err = deleteBookings(txCtx); err != nil {
			return s.storeError(op, "delete bookings", err)
		}
		if result.DeletedRequests, err = deleteRequests(txCtx); err != nil {
			return s.storeError(op, "delete requests", err)
		}
		return nil
	})
	if err != nil {
		err = s.storeError(op, "transaction", err)
		s.audit.Log(context.WithoutCancel(ctx), audit.OpError, actor, fmt.Sprintf("%s %s failed: %v", op, scope, err))
		return nil, err
	}

	s.audit.Log(context.WithoutCancel(ctx), audit.OpPurge, actor, fmt.Sprintf(
		"purged %s: %d requests, %d bookings", scope, result.DeletedRequests, result.DeletedBookings))
	s.logger.Info("%s: purged %s: %d requests, %d bookings", op, scope, result.DeletedRequests, result.DeletedBookings)
	return result, nil
}

// Вспомогательные методы

// withRetry выполняет fn и при ErrConcurrentModification повторяет её ровно один раз
func (s *Service) withRetry(ctx context.Context, op string, requestID string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if !errors.Is(err, ErrConcurrentModification) {
		return err
	}

	s.logger.Warn("%s: concurrent modification of request id=%s, retrying once: %v", op, requestID, err)
	return fn(ctx)
}

// layoutFor возвращает разбиение дня площадки
// Отсутствующая площадка или некорректные часы работы - повреждённые данные: операция отклоняется
func (s *Service) layoutFor(ctx context.Context, venueID string) (domain.SlotLayout, error) {
	v, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Error("layoutFor: venue id=%s of a stored request not found", venueID)
			return domain.SlotLayout{}, fmt.Errorf("%w: venue %s not found", ErrMalformedSlotData, venueID)
		}
		return domain.SlotLayout{}, s.storeError("layoutFor", "load venue", err)
	}

	layout, err := v.SlotLayout()
	if err != nil {
		s.logger.Error("layoutFor: venue id=%s has invalid hours %s-%s: %v", venueID, v.OpenTime, v.CloseTime, err)
		return domain.SlotLayout{}, fmt.Errorf("%w: venue %s: %v", ErrMalformedSlotData, venueID, err)
	}
	return layout, nil
}

// storeError переводит ошибки хранилища и зависимостей в ошибки сервиса
// Ошибки сервиса возвращаются как есть
func (s *Service) storeError(op, step string, err error) error {
	switch {
	case isServiceError(err):
		return err
	case errors.Is(err, bookingRequestRepo.ErrRequestNotFound):
		return ErrNotFound
	case errors.Is(err, bookingRequestRepo.ErrVersionConflict),
		errors.Is(err, venueBookingRepo.ErrSlotTaken),
		errors.Is(err, txmanager.ErrSerialization),
		txmanager.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s - %s: %v", ErrConcurrentModification, op, step, err)
	case errors.Is(err, conflicts.ErrMalformedSlotData), errors.Is(err, domain.ErrMalformedSlotData):
		s.logger.Error("%s: %s: malformed slot data: %v", op, step, err)
		return fmt.Errorf("%w: %s - %s: %v", ErrMalformedSlotData, op, step, err)
	default:
		s.logger.Error("%s: %s: store error: %v", op, step, err)
		return fmt.Errorf("%w: %s - %s: %w", ErrStoreUnavailable, op, step, err)
	}
}

func isServiceError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrInvalidTransition,
		ErrMissingReason,
		ErrConcurrentModification,
		ErrMalformedSlotData,
		ErrStoreUnavailable,
		ErrAlreadyResolved,
		ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// fail фиксирует неудачную операцию в метриках и журнале аудита
func (s *Service) fail(ctx context.Context, op, requestID, actor string, status domain.RequestStatus, err error) {
	outcome := outcomeError
	switch {
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrMissingReason),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		outcome = outcomeRejected
	case errors.Is(err, ErrConcurrentModification), errors.Is(err, ErrAlreadyResolved):
		outcome = outcomeConflict
	}
	s.metrics.IncTransition(status.String(), outcome)

	s.logger.Warn("%s: request id=%s failed: %v", op, requestID, err)
	s.audit.Log(context.WithoutCancel(ctx), audit.OpError, actor, fmt.Sprintf("%s %s failed: %v", op, requestID, err))
}

// notify логирует ошибку постановки уведомления в очередь; на результат операции она не влияет
func (s *Service) notify(op, requestID string, err error) {
	if err != nil {
		s.logger.Warn("%s: failed to enqueue notification for request id=%s: %v", op, requestID, err)
	}
}
