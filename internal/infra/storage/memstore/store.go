// Package memstore хранилище в памяти с тем же контрактом, что и репозитории Postgres.
// Используется в тестах сервисов и для локального запуска без базы (vbs serve --in-memory).
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Имена операций для внедрения сбоев
const (
	OpCreateRequest     = "requests.Create"
	OpGetRequest        = "requests.Get"
	OpFindRequests      = "requests.Find"
	OpUpdateRequest     = "requests.Update"
	OpDeleteRequests    = "requests.Delete"
	OpCreateSlot        = "bookings.CreateSlot"
	OpFindBookings      = "bookings.Find"
	OpDeleteBookings    = "bookings.Delete"
	OpGetVenue          = "venues.Get"
	OpGetCCA            = "ccas.Get"
	OpSession           = "sessions"
	OpInsertAudit       = "audit.Insert"
	OpCommitTransaction = "tx.Commit"
)

type fault struct {
	err       error
	remaining int // < 0 - бесконечно
	skip      int
}

type state struct {
	requests map[string]*domain.BookingRequest
	bookings map[string]*domain.VenueBooking
	sessions map[string]*domain.CCASession
}

// Store хранилище в памяти
// Транзакции выполняются строго последовательно; при ошибке состояние откатывается к снимку
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	state  state
	venues map[string]*domain.Venue
	ccas   map[string]*domain.CCA
	audit  []*domain.AuditEntry

	faults  map[string]*fault
	latency map[string]time.Duration
	now     func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		state: state{
			requests: make(map[string]*domain.BookingRequest),
			bookings: make(map[string]*domain.VenueBooking),
			sessions: make(map[string]*domain.CCASession),
		},
		venues:  make(map[string]*domain.Venue),
		ccas:    make(map[string]*domain.CCA),
		faults:  make(map[string]*fault),
		latency: make(map[string]time.Duration),
		now:     time.Now,
	}
}

// FailOn заставляет операцию op вернуть err следующие times раз (times < 0 - всегда)
func (s *Store) FailOn(op string, err error, times int) {
	s.FailOnAfter(op, err, 0, times)
}

// FailOnAfter как FailOn, но первые skip вызовов выполняются успешно
func (s *Store) FailOnAfter(op string, err error, skip, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = &fault{err: err, remaining: times, skip: skip}
}

// SetLatency задерживает операцию op на d (с учётом отмены контекста)
func (s *Store) SetLatency(op string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency[op] = d
}

// Reset снимает все внедрённые сбои и задержки
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]*fault)
	s.latency = make(map[string]time.Duration)
}

// Requests возвращает репозиторий заявок
func (s *Store) Requests() *RequestRepository {
	return &RequestRepository{store: s}
}

// Bookings возвращает репозиторий подтверждённых слотов
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Venues возвращает репозиторий площадок
func (s *Store) Venues() *VenueRepository {
	return &VenueRepository{store: s}
}

// CCAs возвращает репозиторий CCA
func (s *Store) CCAs() *CCARepository {
	return &CCARepository{store: s}
}

// Sessions возвращает репозиторий сессий CCA
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{store: s}
}

// AuditLog возвращает репозиторий журнала аудита
func (s *Store) AuditLog() *AuditRepository {
	return &AuditRepository{store: s}
}

// TxManager возвращает менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// AuditEntries возвращает копию журнала аудита
func (s *Store) AuditEntries() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.AuditEntry, len(s.audit))
	for i, e := range s.audit {
		entries[i] = *e
	}
	return entries
}

// enter проверяет контекст, выдерживает задержку и применяет внедрённый сбой
// Возвращает функцию разблокировки хранилища
func (s *Store) enter(ctx context.Context, op string) (func(), error) {
	s.mu.Lock()
	delay := s.latency[op]
	s.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("memstore: %s: %w", op, ctx.Err())
		case <-timer.C:
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memstore: %s: %w", op, err)
	}

	s.mu.Lock()
	if f, ok := s.faults[op]; ok {
		switch {
		case f.skip > 0:
			f.skip--
		case f.remaining != 0:
			if f.remaining > 0 {
				f.remaining--
			}
			s.mu.Unlock()
			return nil, f.err
		}
	}

	return s.mu.Unlock, nil
}

func (st state) clone() state {
	c := state{
		requests: make(map[string]*domain.BookingRequest, len(st.requests)),
		bookings: make(map[string]*domain.VenueBooking, len(st.bookings)),
		sessions: make(map[string]*domain.CCASession, len(st.sessions)),
	}
	for id, r := range st.requests {
		c.requests[id] = cloneRequest(r)
	}
	for id, b := range st.bookings {
		copied := *b
		c.bookings[id] = &copied
	}
	for id, sess := range st.sessions {
		copied := *sess
		c.sessions[id] = &copied
	}
	return c
}

func cloneRequest(r *domain.BookingRequest) *domain.BookingRequest {
	c := *r
	c.ConflictRequest = append([]string{}, r.ConflictRequest...)
	if r.Reason != nil {
		reason := *r.Reason
		c.Reason = &reason
	}
	if r.DecidedBy != nil {
		decidedBy := *r.DecidedBy
		c.DecidedBy = &decidedBy
	}
	return &c
}
