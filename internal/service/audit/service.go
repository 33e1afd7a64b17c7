package audit

import (
	"context"
	"sync"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Операции, попадающие в журнал
const (
	OpCreate  = "create"
	OpApprove = "approve"
	OpReject  = "reject"
	OpCancel  = "cancel"
	OpPurge   = "purge"
	OpSession = "session"
	OpError   = "error"
)

const writeTimeout = 5 * time.Second

// Service журнал аудита: записи принимаются без блокировки и сохраняются фоновой горутиной
// При переполнении очереди запись отбрасывается с предупреждением в лог
type Service struct {
	repo    Repository
	logger  Logger
	metrics Metrics
	now     func() time.Time

	queue    chan domain.AuditEntry
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
}

// NewService создает журнал и запускает фоновую запись
func NewService(repo Repository, logger Logger, metrics Metrics, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 1
	}
	s := &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		queue:   make(chan domain.AuditEntry, queueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Log ставит запись в очередь и сразу возвращается
// Ошибки записи никогда не доходят до вызывающего
func (s *Service) Log(_ context.Context, operation, actor, message string) {
	entry := domain.AuditEntry{
		Operation: operation,
		Actor:     actor,
		Message:   message,
		CreatedAt: s.now(),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		s.logger.Warn("audit: journal stopped, dropping %s entry by %s", operation, actor)
		s.metrics.IncAuditDropped()
		return
	}

	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("audit: queue full, dropping %s entry by %s: %s", operation, actor, message)
		s.metrics.IncAuditDropped()
	}
}

// Stop прекращает приём записей и ждёт, пока очередь будет записана, или отмены ctx
func (s *Service) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		close(s.queue)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) run() {
	defer close(s.done)

	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := s.repo.Insert(ctx, &entry); err != nil {
			s.logger.Error("audit: failed to write %s entry by %s: %v", entry.Operation, entry.Actor, err)
		}
		cancel()
	}
}
