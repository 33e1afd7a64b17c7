package create_request

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/memstore"
	"github.com/keviiweb/VBS-sub000/internal/service/conflicts"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type countingAudit struct{ ops []string }

func (a *countingAudit) Log(_ context.Context, op, _, _ string) { a.ops = append(a.ops, op) }

func newTestUseCase(t *testing.T) (*UseCase, *memstore.Store, *countingAudit) {
	t.Helper()

	store := memstore.New()
	ctx := context.Background()

	_, err := store.Venues().Create(ctx, &domain.Venue{
		ID: "hall", Name: "Dining Hall", Visible: true, OpenTime: "08:00", CloseTime: "22:00",
	})
	require.NoError(t, err)
	_, err = store.Venues().Create(ctx, &domain.Venue{
		ID: "store-room", Name: "Store Room", Visible: false, OpenTime: "08:00", CloseTime: "22:00",
	})
	require.NoError(t, err)
	_, err = store.CCAs().Create(ctx, &domain.CCA{ID: "band", Name: "Band"})
	require.NoError(t, err)
	_, err = store.CCAs().Create(ctx, &domain.CCA{ID: "choir", Name: "Choir"})
	require.NoError(t, err)

	log := logger.NewNop()
	auditLog := &countingAudit{}
	uc := NewUseCase(
		store.Requests(),
		store.Venues(),
		store.CCAs(),
		conflicts.NewResolver(store.Requests(), store.Bookings(), log),
		store.TxManager(),
		auditLog,
		log,
		time.Second,
	)
	uc.timeProvider = fixedTime{now: time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)}

	return uc, store, auditLog
}

func validRequest() *Request {
	return &Request{
		Email:       "lead@u.edu",
		VenueID:     "hall",
		Date:        "2025-10-15",
		TimingSlots: "3,2",
		CCAID:       "band",
		Purpose:     "weekly practice",
	}
}

func TestExecute_Success(t *testing.T) {
	uc, store, auditLog := newTestUseCase(t)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)

	created := resp.Requests[0]
	assert.Equal(t, "2,3", created.TimingSlots)
	assert.Equal(t, []string{"09:00", "09:30"}, created.SlotLabels)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "2025-10-15", created.Date)

	stored, err := store.Requests().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, []string{"create"}, auditLog.ops)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr error
	}{
		{name: "bad email", modify: func(r *Request) { r.Email = "not-an-email" }, wantErr: ErrInvalidInput},
		{name: "bad date", modify: func(r *Request) { r.Date = "15/10/2025" }, wantErr: ErrInvalidInput},
		{name: "blank purpose", modify: func(r *Request) { r.Purpose = "   " }, wantErr: ErrInvalidInput},
		{name: "missing cca", modify: func(r *Request) { r.CCAID = "" }, wantErr: ErrInvalidInput},
		{name: "past date", modify: func(r *Request) { r.Date = "2025-10-09" }, wantErr: ErrInvalidDate},
		{name: "unknown venue", modify: func(r *Request) { r.VenueID = "roof" }, wantErr: ErrVenueNotFound},
		{name: "hidden venue", modify: func(r *Request) { r.VenueID = "store-room" }, wantErr: ErrVenueNotBookable},
		{name: "slot after closing", modify: func(r *Request) { r.TimingSlots = "28" }, wantErr: ErrInvalidTimeSlot},
		{name: "garbage slots", modify: func(r *Request) { r.TimingSlots = "2,,3" }, wantErr: ErrInvalidTimeSlot},
		{name: "unknown cca", modify: func(r *Request) { r.CCAID = "chess" }, wantErr: ErrCCANotFound},
		{name: "repeat before date", modify: func(r *Request) { r.RepeatUntil = "2025-10-14" }, wantErr: ErrInvalidInput},
		{name: "too many weeks", modify: func(r *Request) { r.RepeatUntil = "2027-10-15" }, wantErr: ErrTooManyOccurrences},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newTestUseCase(t)
			req := validRequest()
			tt.modify(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_TodayIsAllowed(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	req := validRequest()
	req.Date = "2025-10-10"

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_DuplicateGuard(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, validRequest())
	require.NoError(t, err)

	// Та же CCA, пересекающиеся слоты
	dup := validRequest()
	dup.Email = "other@u.edu"
	dup.TimingSlots = "3,4"
	_, err = uc.Execute(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// Другая CCA может претендовать на те же слоты
	competitor := validRequest()
	competitor.CCAID = "choir"
	_, err = uc.Execute(ctx, competitor)
	assert.NoError(t, err)

	// Та же CCA, соседние слоты
	adjacent := validRequest()
	adjacent.TimingSlots = "4,5"
	_, err = uc.Execute(ctx, adjacent)
	assert.NoError(t, err)
}

func TestExecute_PersonalDuplicateMatchesRequester(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	ctx := context.Background()

	personal := validRequest()
	personal.CCAID = domain.PersonalCCA
	_, err := uc.Execute(ctx, personal)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, personal)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	other := validRequest()
	other.CCAID = domain.PersonalCCA
	other.Email = "someone@u.edu"
	_, err = uc.Execute(ctx, other)
	assert.NoError(t, err)
}

func TestExecute_ConfirmedSlotIsUnavailable(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	ctx := context.Background()

	_, err := store.Bookings().CreateSlot(ctx, &domain.VenueBooking{
		VenueID: "hall", Date: domain.Day(1760486400), Slot: 3, RequestID: "approved-1",
	})
	require.NoError(t, err)

	req := validRequest()
	req.CCAID = "choir"
	_, err = uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_WeeklyRecurrence(t *testing.T) {
	uc, _, auditLog := newTestUseCase(t)

	req := validRequest()
	req.RepeatUntil = "2025-11-05"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	dates := make([]string, 0, len(resp.Requests))
	for _, r := range resp.Requests {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{"2025-10-15", "2025-10-22", "2025-10-29", "2025-11-05"}, dates)
	assert.Len(t, auditLog.ops, 4)
}

func TestExecute_RecurrenceIsAllOrNothing(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	ctx := context.Background()

	// Третья неделя уже занята
	third, err := domain.ParseDay("2025-10-29")
	require.NoError(t, err)
	_, err = store.Bookings().CreateSlot(ctx, &domain.VenueBooking{
		VenueID: "hall", Date: third, Slot: 2, RequestID: "approved-1",
	})
	require.NoError(t, err)

	req := validRequest()
	req.RepeatUntil = "2025-11-05"
	_, err = uc.Execute(ctx, req)
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	pending, err := store.Requests().ListByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExecute_StoreTimeout(t *testing.T) {
	uc, store, auditLog := newTestUseCase(t)
	uc.storeTimeout = 20 * time.Millisecond
	store.SetLatency(memstore.OpFindRequests, 500*time.Millisecond)

	start := time.Now()
	_, err := uc.Execute(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
	assert.Equal(t, []string{"error"}, auditLog.ops)

	store.Reset()
	pending, err := store.Requests().ListByStatus(context.Background(), domain.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExecute_StoreFailure(t *testing.T) {
	tests := []struct {
		name string
		op   string
	}{
		{"venue lookup", memstore.OpGetVenue},
		{"cca lookup", memstore.OpGetCCA},
		{"insert", memstore.OpCreateRequest},
		{"commit", memstore.OpCommitTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store, _ := newTestUseCase(t)
			store.FailOn(tt.op, errors.New("connection reset"), 1)

			_, err := uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrStoreUnavailable)
		})
	}
}
