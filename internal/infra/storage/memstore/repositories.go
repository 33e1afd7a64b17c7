package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/bookingrequest"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/cca"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/session"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/venue"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/venuebooking"
)

// RequestRepository заявки на бронирование в памяти
type RequestRepository struct {
	store *Store
}

// Create сохраняет новую заявку
func (r *RequestRepository) Create(ctx context.Context, req *domain.BookingRequest) (*domain.BookingRequest, error) {
	unlock, err := r.store.enter(ctx, OpCreateRequest)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, exists := r.store.state.requests[req.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingrequest.ErrExecQuery, req.ID)
	}
	if req.Status == "" {
		req.Status = domain.StatusPending
	}
	if req.ConflictRequest == nil {
		req.ConflictRequest = []string{}
	}
	req.Version = 1
	req.CreatedAt = r.store.now()
	req.UpdatedAt = req.CreatedAt

	r.store.state.requests[req.ID] = cloneRequest(req)
	return req, nil
}

// GetByID получает заявку по ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.BookingRequest, error) {
	unlock, err := r.store.enter(ctx, OpGetRequest)
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, ok := r.store.state.requests[id]
	if !ok {
		return nil, bookingrequest.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

// GetByIDForUpdate получает заявку по ID; транзакции и так выполняются последовательно
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.BookingRequest, error) {
	return r.GetByID(ctx, id)
}

// FindByVenueAndDate получает заявки площадки на дату в указанных статусах
func (r *RequestRepository) FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day, statuses ...domain.RequestStatus) ([]*domain.BookingRequest, error) {
	return r.find(ctx, func(req *domain.BookingRequest) bool {
		return req.VenueID == venueID && req.Date == date && hasStatus(req.Status, statuses)
	})
}

// FindPending получает ожидающие решения заявки площадки на дату
func (r *RequestRepository) FindPending(ctx context.Context, venueID string, date domain.Day) ([]*domain.BookingRequest, error) {
	return r.FindByVenueAndDate(ctx, venueID, date, domain.StatusPending)
}

// ListByStatus получает все заявки в статусе
func (r *RequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.BookingRequest, error) {
	return r.find(ctx, func(req *domain.BookingRequest) bool {
		return req.Status == status
	})
}

func (r *RequestRepository) find(ctx context.Context, match func(*domain.BookingRequest) bool) ([]*domain.BookingRequest, error) {
	unlock, err := r.store.enter(ctx, OpFindRequests)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*domain.BookingRequest, 0)
	for _, req := range r.store.state.requests {
		if match(req) {
			result = append(result, cloneRequest(req))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update применяет patch, если версия заявки равна expectedVersion
func (r *RequestRepository) Update(ctx context.Context, id string, patch domain.RequestPatch, expectedVersion int64) (*domain.BookingRequest, error) {
	unlock, err := r.store.enter(ctx, OpUpdateRequest)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, ok := r.store.state.requests[id]
	if !ok {
		return nil, bookingrequest.ErrRequestNotFound
	}
	if current.Version != expectedVersion {
		return nil, bookingrequest.ErrVersionConflict
	}

	updated := current.Apply(patch)
	updated.UpdatedAt = r.store.now()
	r.store.state.requests[id] = cloneRequest(updated)

	return updated, nil
}

// DeleteAllByVenue удаляет заявки площадки вместе с их слотами
func (r *RequestRepository) DeleteAllByVenue(ctx context.Context, venueID string) (int64, error) {
	return r.delete(ctx, func(req *domain.BookingRequest) bool { return req.VenueID == venueID })
}

// DeleteAll удаляет все заявки вместе со слотами
func (r *RequestRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.delete(ctx, func(*domain.BookingRequest) bool { return true })
}

func (r *RequestRepository) delete(ctx context.Context, match func(*domain.BookingRequest) bool) (int64, error) {
	unlock, err := r.store.enter(ctx, OpDeleteRequests)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var deleted int64
	for id, req := range r.store.state.requests {
		if !match(req) {
			continue
		}
		delete(r.store.state.requests, id)
		deleted++
		// ON DELETE CASCADE
		for bookingID, b := range r.store.state.bookings {
			if b.RequestID == id {
				delete(r.store.state.bookings, bookingID)
			}
		}
	}
	return deleted, nil
}

// BookingRepository подтверждённые слоты в памяти
type BookingRepository struct {
	store *Store
}

// CreateSlot сохраняет подтверждённый слот; занятый слот - ErrSlotTaken
func (r *BookingRepository) CreateSlot(ctx context.Context, booking *domain.VenueBooking) (*domain.VenueBooking, error) {
	unlock, err := r.store.enter(ctx, OpCreateSlot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, b := range r.store.state.bookings {
		if b.VenueID == booking.VenueID && b.Date == booking.Date && b.Slot == booking.Slot {
			return nil, fmt.Errorf("%w: venue=%s date=%s slot=%d",
				venuebooking.ErrSlotTaken, booking.VenueID, booking.Date, booking.Slot)
		}
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = r.store.now()

	copied := *booking
	r.store.state.bookings[booking.ID] = &copied
	return booking, nil
}

// FindByVenueAndDate получает подтверждённые слоты площадки на дату
func (r *BookingRepository) FindByVenueAndDate(ctx context.Context, venueID string, date domain.Day) ([]*domain.VenueBooking, error) {
	return r.find(ctx, func(b *domain.VenueBooking) bool {
		return b.VenueID == venueID && b.Date == date
	})
}

// FindByRequestID получает слоты, материализованные заявкой
func (r *BookingRepository) FindByRequestID(ctx context.Context, requestID string) ([]*domain.VenueBooking, error) {
	return r.find(ctx, func(b *domain.VenueBooking) bool {
		return b.RequestID == requestID
	})
}

func (r *BookingRepository) find(ctx context.Context, match func(*domain.VenueBooking) bool) ([]*domain.VenueBooking, error) {
	unlock, err := r.store.enter(ctx, OpFindBookings)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*domain.VenueBooking, 0)
	for _, b := range r.store.state.bookings {
		if match(b) {
			copied := *b
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Slot != result[j].Slot {
			return result[i].Slot < result[j].Slot
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteByRequestID освобождает слоты заявки
func (r *BookingRepository) DeleteByRequestID(ctx context.Context, requestID string) (int64, error) {
	return r.delete(ctx, func(b *domain.VenueBooking) bool { return b.RequestID == requestID })
}

// DeleteAllByVenue удаляет слоты площадки
func (r *BookingRepository) DeleteAllByVenue(ctx context.Context, venueID string) (int64, error) {
	return r.delete(ctx, func(b *domain.VenueBooking) bool { return b.VenueID == venueID })
}

// DeleteAll удаляет все слоты
func (r *BookingRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.delete(ctx, func(*domain.VenueBooking) bool { return true })
}

func (r *BookingRepository) delete(ctx context.Context, match func(*domain.VenueBooking) bool) (int64, error) {
	unlock, err := r.store.enter(ctx, OpDeleteBookings)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var deleted int64
	for id, b := range r.store.state.bookings {
		if match(b) {
			delete(r.store.state.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

// VenueRepository площадки в памяти
type VenueRepository struct {
	store *Store
}

// Create сохраняет площадку
func (r *VenueRepository) Create(ctx context.Context, v *domain.Venue) (*domain.Venue, error) {
	unlock, err := r.store.enter(ctx, OpGetVenue)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = r.store.now()
	v.UpdatedAt = v.CreatedAt

	copied := *v
	r.store.venues[v.ID] = &copied
	return v, nil
}

// GetByID получает площадку по ID
func (r *VenueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	unlock, err := r.store.enter(ctx, OpGetVenue)
	if err != nil {
		return nil, err
	}
	defer unlock()

	v, ok := r.store.venues[id]
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	copied := *v
	return &copied, nil
}

// List получает площадки, отсортированные по имени
func (r *VenueRepository) List(ctx context.Context, onlyVisible bool) ([]*domain.Venue, error) {
	unlock, err := r.store.enter(ctx, OpGetVenue)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*domain.Venue, 0, len(r.store.venues))
	for _, v := range r.store.venues {
		if onlyVisible && !v.Visible {
			continue
		}
		copied := *v
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// CCARepository CCA в памяти
type CCARepository struct {
	store *Store
}

// Create сохраняет CCA
func (r *CCARepository) Create(ctx context.Context, c *domain.CCA) (*domain.CCA, error) {
	unlock, err := r.store.enter(ctx, OpGetCCA)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.store.now()
	c.UpdatedAt = c.CreatedAt

	copied := *c
	r.store.ccas[c.ID] = &copied
	return c, nil
}

// GetByID получает CCA по ID
func (r *CCARepository) GetByID(ctx context.Context, id string) (*domain.CCA, error) {
	unlock, err := r.store.enter(ctx, OpGetCCA)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := r.store.ccas[id]
	if !ok {
		return nil, cca.ErrCCANotFound
	}
	copied := *c
	return &copied, nil
}

// SessionRepository сессии CCA в памяти
type SessionRepository struct {
	store *Store
}

// Create сохраняет сессию
func (r *SessionRepository) Create(ctx context.Context, s *domain.CCASession) (*domain.CCASession, error) {
	unlock, err := r.store.enter(ctx, OpSession)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = r.store.now()
	s.UpdatedAt = s.CreatedAt

	copied := *s
	r.store.state.sessions[s.ID] = &copied
	return s, nil
}

// GetByID получает сессию по ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.CCASession, error) {
	unlock, err := r.store.enter(ctx, OpSession)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, ok := r.store.state.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

// FindByCCAAndDate получает сессии CCA на дату
func (r *SessionRepository) FindByCCAAndDate(ctx context.Context, ccaID string, date domain.Day) ([]*domain.CCASession, error) {
	unlock, err := r.store.enter(ctx, OpSession)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*domain.CCASession, 0)
	for _, s := range r.store.state.sessions {
		if s.CCAID == ccaID && s.Date == date {
			copied := *s
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Time != result[j].Time {
			return result[i].Time < result[j].Time
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Update перезаписывает сессию
func (r *SessionRepository) Update(ctx context.Context, s *domain.CCASession) (*domain.CCASession, error) {
	unlock, err := r.store.enter(ctx, OpSession)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, ok := r.store.state.sessions[s.ID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	s.CreatedAt = current.CreatedAt
	s.CreatedBy = current.CreatedBy
	s.UpdatedAt = r.store.now()

	copied := *s
	r.store.state.sessions[s.ID] = &copied
	return s, nil
}

// AuditRepository журнал аудита в памяти
// Записи не откатываются вместе с транзакциями
type AuditRepository struct {
	store *Store
}

// Insert добавляет запись в журнал
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	unlock, err := r.store.enter(ctx, OpInsertAudit)
	if err != nil {
		return err
	}
	defer unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	copied := *entry
	r.store.audit = append(r.store.audit, &copied)
	return nil
}

func hasStatus(status domain.RequestStatus, statuses []domain.RequestStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
