package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	ccaRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/cca"
	sessionRepo "github.com/keviiweb/VBS-sub000/internal/infra/storage/session"
	"github.com/keviiweb/VBS-sub000/internal/service/audit"
	"github.com/keviiweb/VBS-sub000/internal/service/sessions/models"
)

// Service сессии CCA с проверкой пересечения по времени
type Service struct {
	sessionRepo  SessionRepository
	ccaRepo      CCARepository
	txManager    TransactionManager
	audit        AuditLogger
	logger       Logger
	storeTimeout time.Duration
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	sessionRepo SessionRepository,
	ccaRepo CCARepository,
	txManager TransactionManager,
	auditLog AuditLogger,
	logger Logger,
	storeTimeout time.Duration,
) *Service {
	return &Service{
		sessionRepo:  sessionRepo,
		ccaRepo:      ccaRepo,
		txManager:    txManager,
		audit:        auditLog,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// Create создает сессию CCA, если её время не пересекается с другими сессиями CCA в тот же день
func (s *Service) Create(ctx context.Context, input models.CreateSessionInput) (*models.SessionResponse, error) {
	s.logger.Info("Create: creating session for cca=%s date=%s time=%s", input.CCAID, input.Date, input.Time)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	date, err := domain.ParseDay(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	timeRange, err := domain.ParseTimeRange(input.Time)
	if err != nil {
		s.logger.Warn("Create: invalid time range %q: %v", input.Time, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var created *domain.CCASession
	err = s.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
		if _, err := s.ccaRepo.GetByID(txCtx, input.CCAID); err != nil {
			if errors.Is(err, ccaRepo.ErrCCANotFound) {
				return ErrCCANotFound
			}
			return fmt.Errorf("%w: Create - load cca: %w", ErrStoreUnavailable, err)
		}

		if err := s.checkConflicts(txCtx, input.CCAID, date, "", timeRange); err != nil {
			return err
		}

		created, err = s.sessionRepo.Create(txCtx, &domain.CCASession{
			CCAID:           input.CCAID,
			Date:            date,
			Name:            name,
			Time:            timeRange.String(),
			DurationMinutes: timeRange.DurationMinutes(),
			Editable:        true,
			Optional:        input.Optional,
			Remarks:         input.Remarks,
			CreatedBy:       input.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("%w: Create - insert session: %w", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Create: session for cca=%s failed: %v", input.CCAID, err)
		return nil, err
	}

	s.audit.Log(context.WithoutCancel(ctx), audit.OpSession, input.CreatedBy, fmt.Sprintf(
		"created session %s for cca %s on %s at %s", created.ID, created.CCAID, created.Date, created.Time))
	s.logger.Info("Create: session id=%s created", created.ID)

	return models.FromDomainSession(created), nil
}

// Update изменяет сессию; при изменении даты или времени повторяет проверку пересечений
func (s *Service) Update(ctx context.Context, input models.UpdateSessionInput) (*models.SessionResponse, error) {
	s.logger.Info("Update: updating session id=%s", input.ID)

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var updated *domain.CCASession
	err := s.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
		current, err := s.load(txCtx, input.ID)
		if err != nil {
			return err
		}
		if !current.Editable {
			return fmt.Errorf("%w: session %s", ErrSessionLocked, input.ID)
		}

		next := *current
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("%w: name is required", ErrInvalidInput)
			}
			next.Name = name
		}
		if input.Date != nil {
			if next.Date, err = domain.ParseDay(*input.Date); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
		}
		if input.Optional != nil {
			next.Optional = *input.Optional
		}
		if input.Remarks != nil {
			next.Remarks = *input.Remarks
		}

		timeRange, err := next.Range()
		if input.Time != nil {
			timeRange, err = domain.ParseTimeRange(*input.Time)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		next.Time = timeRange.String()
		next.DurationMinutes = timeRange.DurationMinutes()

		if err := s.checkConflicts(txCtx, next.CCAID, next.Date, next.ID, timeRange); err != nil {
			return err
		}

		updated, err = s.sessionRepo.Update(txCtx, &next)
		if err != nil {
			return s.storeError("Update", "update session", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Update: session id=%s failed: %v", input.ID, err)
		return nil, err
	}

	s.audit.Log(context.WithoutCancel(ctx), audit.OpSession, input.Actor, fmt.Sprintf(
		"updated session %s: %s at %s", updated.ID, updated.Date, updated.Time))
	s.logger.Info("Update: session id=%s updated", updated.ID)

	return models.FromDomainSession(updated), nil
}

// Lock закрывает сессию для редактирования (после отметки посещаемости)
func (s *Service) Lock(ctx context.Context, sessionID string, actor string) (*models.SessionResponse, error) {
	s.logger.Info("Lock: locking session id=%s", sessionID)

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var locked *domain.CCASession
	err := s.txManager.DoSerializable(storeCtx, func(txCtx context.Context) error {
		current, err := s.load(txCtx, sessionID)
		if err != nil {
			return err
		}
		if !current.Editable {
			return fmt.Errorf("%w: session %s", ErrSessionLocked, sessionID)
		}

		current.Editable = false
		locked, err = s.sessionRepo.Update(txCtx, current)
		if err != nil {
			return s.storeError("Lock", "update session", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Lock: session id=%s failed: %v", sessionID, err)
		return nil, err
	}

	s.audit.Log(context.WithoutCancel(ctx), audit.OpSession, actor, "locked session "+sessionID)
	return models.FromDomainSession(locked), nil
}

// checkConflicts проверяет пересечение с другими сессиями той же CCA в тот же день
// Сессия с ID excludeID (сама изменяемая сессия) не учитывается
func (s *Service) checkConflicts(ctx context.Context, ccaID string, date domain.Day, excludeID string, timeRange domain.TimeRange) error {
	existing, err := s.sessionRepo.FindByCCAAndDate(ctx, ccaID, date)
	if err != nil {
		return s.storeError("checkConflicts", "load sessions", err)
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		otherRange, err := other.Range()
		if err != nil {
			// Повреждённое время другой сессии считаем конфликтом
			s.logger.Error("checkConflicts: session id=%s has invalid time %q: %v", other.ID, other.Time, err)
			return fmt.Errorf("%w: session %s has invalid time %q", ErrSessionConflict, other.ID, other.Time)
		}
		if timeRange.ConflictsWith(otherRange) {
			s.logger.Warn("checkConflicts: %s conflicts with session id=%s (%s)", timeRange, other.ID, other.Time)
			return fmt.Errorf("%w: %s overlaps %q at %s", ErrSessionConflict, timeRange, other.Name, other.Time)
		}
	}

	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*domain.CCASession, error) {
	current, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, s.storeError("load", "get session", err)
	}
	return current, nil
}

func (s *Service) storeError(op, step string, err error) error {
	if errors.Is(err, sessionRepo.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	s.logger.Error("%s: %s: %v", op, step, err)
	return fmt.Errorf("%w: %s - %s: %w", ErrStoreUnavailable, op, step, err)
}
