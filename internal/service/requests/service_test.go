package requests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/bookingrequest"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/memstore"
	"github.com/keviiweb/VBS-sub000/internal/service/audit"
	"github.com/keviiweb/VBS-sub000/internal/service/conflicts"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
	"github.com/keviiweb/VBS-sub000/pkg/metrics"
)

const testDay = domain.Day(1760486400) // 2025-10-15

type sentNotification struct {
	kind      string
	requestID string
	detail    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) record(kind, id, detail string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{kind: kind, requestID: id, detail: detail})
	return nil
}

func (n *recordingNotifier) NotifyApproved(req *domain.BookingRequest, approver string) error {
	return n.record("approved", req.ID, approver)
}

func (n *recordingNotifier) NotifyRejected(req *domain.BookingRequest, reason string) error {
	return n.record("rejected", req.ID, reason)
}

func (n *recordingNotifier) NotifyCancelled(req *domain.BookingRequest) error {
	return n.record("cancelled", req.ID, "")
}

func (n *recordingNotifier) NotifySlotFreed(req *domain.BookingRequest) error {
	return n.record("slot_freed", req.ID, "")
}

func (n *recordingNotifier) kinds(requestID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []string
	for _, s := range n.sent {
		if s.requestID == requestID {
			kinds = append(kinds, s.kind)
		}
	}
	return kinds
}

type auditRecord struct {
	op    string
	actor string
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []auditRecord
}

func (a *recordingAudit) Log(_ context.Context, op, actor, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditRecord{op: op, actor: actor})
}

func (a *recordingAudit) count(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, e := range a.entries {
		if e.op == op {
			n++
		}
	}
	return n
}

type fixture struct {
	store    *memstore.Store
	service  *Service
	notifier *recordingNotifier
	audit    *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTimeout(t, time.Second)
}

func newFixtureWithTimeout(t *testing.T, storeTimeout time.Duration) *fixture {
	t.Helper()

	store := memstore.New()
	_, err := store.Venues().Create(context.Background(), &domain.Venue{
		ID:        "hall",
		Name:      "Dining Hall",
		Visible:   true,
		OpenTime:  "08:00",
		CloseTime: "22:00",
	})
	require.NoError(t, err)

	log := logger.NewNop()
	var m *metrics.Metrics
	notifier := &recordingNotifier{}
	auditLog := &recordingAudit{}

	svc := NewService(
		store.Requests(),
		store.Bookings(),
		store.Venues(),
		conflicts.NewResolver(store.Requests(), store.Bookings(), log),
		notifier,
		auditLog,
		store.TxManager(),
		m,
		log,
		storeTimeout,
	)

	return &fixture{store: store, service: svc, notifier: notifier, audit: auditLog}
}

func (f *fixture) add(t *testing.T, ccaID, slots string) *domain.BookingRequest {
	t.Helper()
	req, err := f.store.Requests().Create(context.Background(), &domain.BookingRequest{
		VenueID:     "hall",
		Date:        testDay,
		TimingSlots: slots,
		Email:       ccaID + "@u.edu",
		CCAID:       ccaID,
		Purpose:     "practice",
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) status(t *testing.T, id string) domain.RequestStatus {
	t.Helper()
	req, err := f.store.Requests().GetByID(context.Background(), id)
	require.NoError(t, err)
	return req.Status
}

func (f *fixture) bookings(t *testing.T) []*domain.VenueBooking {
	t.Helper()
	list, err := f.store.Bookings().FindByVenueAndDate(context.Background(), "hall", testDay)
	require.NoError(t, err)
	return list
}

func TestApprove_DisjointRequestsBothApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3,4")
	b := f.add(t, "choir", "5,6")

	respA, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)
	assert.Empty(t, respA.CascadedRejections)

	respB, err := f.service.Approve(ctx, b.ID, "admin@u.edu")
	require.NoError(t, err)
	assert.Empty(t, respB.CascadedRejections)

	assert.Equal(t, domain.StatusApproved, f.status(t, a.ID))
	assert.Equal(t, domain.StatusApproved, f.status(t, b.ID))
	assert.Len(t, f.bookings(t), 5)
}

func TestApprove_CascadesOverlappingPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3,4")
	b := f.add(t, "choir", "3")
	c := f.add(t, "dance", "4,5")
	d := f.add(t, "drama", "7") // не пересекается

	resp, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	assert.Equal(t, "approved", resp.Request.Status)
	assert.ElementsMatch(t, []string{b.ID, c.ID}, resp.Request.ConflictRequest)
	require.Len(t, resp.CascadedRejections, 2)
	for _, rejected := range resp.CascadedRejections {
		assert.Equal(t, "rejected", rejected.Status)
		require.NotNil(t, rejected.Reason)
		assert.Equal(t, domain.ConflictRejectionReason, *rejected.Reason)
		require.NotNil(t, rejected.DecidedBy)
		assert.Equal(t, domain.SystemActor, *rejected.DecidedBy)
	}

	assert.Equal(t, domain.StatusRejected, f.status(t, b.ID))
	assert.Equal(t, domain.StatusRejected, f.status(t, c.ID))
	assert.Equal(t, domain.StatusPending, f.status(t, d.ID))

	booked := f.bookings(t)
	require.Len(t, booked, 3)
	for _, vb := range booked {
		assert.Equal(t, a.ID, vb.RequestID)
		assert.Equal(t, "admin@u.edu", vb.BookedBy)
	}

	assert.Equal(t, []string{"approved"}, f.notifier.kinds(a.ID))
	assert.Equal(t, []string{"rejected"}, f.notifier.kinds(b.ID))
	assert.Equal(t, []string{"rejected"}, f.notifier.kinds(c.ID))
	assert.Equal(t, 1, f.audit.count(audit.OpApprove))
	assert.Equal(t, 2, f.audit.count(audit.OpReject))
}

func TestApprove_TerminalRequestsAreImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2")
	_, err := f.service.Reject(ctx, a.ID, "not available", "admin@u.edu")
	require.NoError(t, err)

	before, err := f.store.Requests().GetByID(ctx, a.ID)
	require.NoError(t, err)

	_, err = f.service.Approve(ctx, a.ID, "other@u.edu")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.service.Reject(ctx, a.ID, "again", "other@u.edu")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.service.Cancel(ctx, a.ID, "other@u.edu")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	after, err := f.store.Requests().GetByID(ctx, a.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, after.Status)
	assert.Equal(t, before.Version, after.Version)
	require.NotNil(t, after.Reason)
	assert.Equal(t, "not available", *after.Reason)
	require.NotNil(t, after.DecidedBy)
	assert.Equal(t, "admin@u.edu", *after.DecidedBy)
	assert.Equal(t, before.ConflictRequest, after.ConflictRequest)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	assert.Equal(t, before, after)

	assert.Empty(t, f.bookings(t))
	assert.Equal(t, 3, f.audit.count(audit.OpError))
}

func TestApprove_ApprovedCannotBeApprovedTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	_, err = f.service.Approve(ctx, a.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, f.bookings(t), 2)
}

func TestApprove_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Approve(context.Background(), "missing", "admin@u.edu")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprove_ConcurrentOverlappingHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reqs := []*domain.BookingRequest{
		f.add(t, "band", "2,3"),
		f.add(t, "choir", "3,4"),
		f.add(t, "dance", "3"),
		f.add(t, "drama", "1,3"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(reqs))
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.service.Approve(ctx, id, "admin@u.edu")
		}(i, req.ID)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, 1, winners)

	// Ни один слот не подтверждён дважды
	seen := make(map[int]string)
	for _, vb := range f.bookings(t) {
		owner, dup := seen[vb.Slot]
		assert.False(t, dup, "slot %d booked by %s and %s", vb.Slot, owner, vb.RequestID)
		seen[vb.Slot] = vb.RequestID
	}
}

func TestApprove_AlreadyResolvedSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	// Заявка попала в хранилище в обход проверок создания
	late := f.add(t, "choir", "3")

	_, err = f.service.Approve(ctx, late.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, domain.StatusPending, f.status(t, late.ID))
	assert.Len(t, f.bookings(t), 2)
}

func TestApprove_RollsBackOnPartialMaterialization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3,4")
	b := f.add(t, "choir", "3")

	f.store.FailOnAfter(memstore.OpCreateSlot, errors.New("disk full"), 1, 1)

	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))
	assert.Equal(t, domain.StatusPending, f.status(t, b.ID))
	assert.Empty(t, f.bookings(t))
	assert.Empty(t, f.notifier.kinds(a.ID))
	assert.Empty(t, f.notifier.kinds(b.ID))
}

func TestApprove_RetriesOnceOnVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2")
	f.store.FailOn(memstore.OpUpdateRequest, bookingrequest.ErrVersionConflict, 1)

	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, f.status(t, a.ID))
}

func TestApprove_SurfacesRepeatedVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2")
	f.store.FailOn(memstore.OpUpdateRequest, bookingrequest.ErrVersionConflict, 2)

	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrConcurrentModification)
	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))
	assert.Empty(t, f.bookings(t))
}

func TestApprove_MalformedCompetitorFailsClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3")
	broken := f.add(t, "choir", "2,x")

	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrMalformedSlotData)

	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))
	assert.Equal(t, domain.StatusPending, f.status(t, broken.ID))
	assert.Empty(t, f.bookings(t))
}

func TestApprove_SlotOutsideOperatingHoursFailsClosed(t *testing.T) {
	f := newFixture(t)

	a := f.add(t, "band", "40") // 08:00-22:00 даёт 28 слотов

	_, err := f.service.Approve(context.Background(), a.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrMalformedSlotData)
	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))
}

func TestApprove_MissingVenueFailsClosed(t *testing.T) {
	f := newFixture(t)

	req, err := f.store.Requests().Create(context.Background(), &domain.BookingRequest{
		VenueID:     "gone",
		Date:        testDay,
		TimingSlots: "2",
		Email:       "x@u.edu",
		CCAID:       domain.PersonalCCA,
	})
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), req.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrMalformedSlotData)
}

func TestApprove_StoreTimeout(t *testing.T) {
	f := newFixtureWithTimeout(t, 20*time.Millisecond)

	a := f.add(t, "band", "2")
	f.store.SetLatency(memstore.OpGetRequest, 500*time.Millisecond)

	_, err := f.service.Approve(context.Background(), a.ID, "admin@u.edu")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.store.Reset()
	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))
}

func TestApprove_NotificationFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("queue full")

	a := f.add(t, "band", "2,3")
	b := f.add(t, "choir", "3")

	resp, err := f.service.Approve(context.Background(), a.ID, "admin@u.edu")
	require.NoError(t, err)
	assert.Len(t, resp.CascadedRejections, 1)
	assert.Equal(t, domain.StatusRejected, f.status(t, b.ID))
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2")

	resp, err := f.service.Reject(ctx, a.ID, "  hall under maintenance ", "admin@u.edu")
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "hall under maintenance", *resp.Reason)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, "admin@u.edu", *resp.DecidedBy)

	assert.Equal(t, []string{"rejected"}, f.notifier.kinds(a.ID))
	assert.Equal(t, 1, f.audit.count(audit.OpReject))
}

func TestReject_MissingReason(t *testing.T) {
	f := newFixture(t)

	a := f.add(t, "band", "2")

	_, err := f.service.Reject(context.Background(), a.ID, "   ", "admin@u.edu")
	assert.ErrorIs(t, err, ErrMissingReason)
	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))

	// Причина проверяется до загрузки заявки
	_, err = f.service.Reject(context.Background(), "missing", "", "admin@u.edu")
	assert.ErrorIs(t, err, ErrMissingReason)
}

func TestReject_ApprovedIsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	_, err = f.service.Reject(ctx, a.ID, "changed my mind", "admin@u.edu")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, f.bookings(t), 1)
}

func TestCancel_PendingKeepsSlotsUntouched(t *testing.T) {
	f := newFixture(t)

	a := f.add(t, "band", "2")

	resp, err := f.service.Cancel(context.Background(), a.ID, "band@u.edu")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, []string{"cancelled"}, f.notifier.kinds(a.ID))
}

func TestCancel_ApprovedReleasesSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)
	require.Len(t, f.bookings(t), 2)

	_, err = f.service.Cancel(ctx, a.ID, "band@u.edu")
	require.NoError(t, err)
	assert.Empty(t, f.bookings(t))
	assert.Equal(t, []string{"approved", "cancelled", "slot_freed"}, f.notifier.kinds(a.ID))

	// Освободившиеся слоты снова можно одобрить
	b := f.add(t, "choir", "3")
	_, err = f.service.Approve(ctx, b.ID, "admin@u.edu")
	require.NoError(t, err)
}

func TestCancel_RollsBackWhenReleaseFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	f.store.FailOn(memstore.OpDeleteBookings, errors.New("io error"), 1)

	_, err = f.service.Cancel(ctx, a.ID, "band@u.edu")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, domain.StatusApproved, f.status(t, a.ID))
	assert.Len(t, f.bookings(t), 2)
}

func TestFindConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3,4")
	b := f.add(t, "choir", "4,5")
	c := f.add(t, "dance", "3")
	f.add(t, "drama", "10")

	// b одобрена напрямую в хранилище, чтобы a осталась в ожидании
	_, err := f.store.Requests().Update(ctx, b.ID, domain.RequestPatch{Status: domain.StatusApproved}, b.Version)
	require.NoError(t, err)

	resp, err := f.service.FindConflicts(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, resp.RequestID)

	var ids []string
	for _, r := range resp.Conflicts {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{b.ID, c.ID}, ids)

	// Поиск ничего не изменяет
	assert.Equal(t, domain.StatusPending, f.status(t, a.ID))
	assert.Equal(t, domain.StatusPending, f.status(t, c.ID))
}

func TestListByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2")
	f.add(t, "choir", "5")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	pending, err := f.service.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, pending.Requests, 1)

	approved, err := f.service.ListByStatus(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved.Requests, 1)
	assert.Equal(t, a.ID, approved.Requests[0].ID)

	_, err = f.service.ListByStatus(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPurgeVenue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.add(t, "band", "2,3")
	f.add(t, "choir", "6")
	_, err := f.service.Approve(ctx, a.ID, "admin@u.edu")
	require.NoError(t, err)

	resp, err := f.service.PurgeVenue(ctx, "hall", "admin@u.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DeletedRequests)
	assert.Equal(t, int64(2), resp.DeletedBookings)
	assert.Empty(t, f.bookings(t))
	assert.Equal(t, 1, f.audit.count(audit.OpPurge))

	_, err = f.service.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
