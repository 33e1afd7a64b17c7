package get_venue_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/internal/domain"
	"github.com/keviiweb/VBS-sub000/internal/infra/storage/memstore"
	"github.com/keviiweb/VBS-sub000/pkg/logger"
	"github.com/keviiweb/VBS-sub000/pkg/types"
)

const testDay = domain.Day(1760486400) // 2025-10-15

func TestExecute(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	_, err := store.Venues().Create(ctx, &domain.Venue{ID: "room", Name: "Music Room", Visible: true, OpenTime: "10:00", CloseTime: "12:00"})
	require.NoError(t, err)

	_, err = store.Bookings().CreateSlot(ctx, &domain.VenueBooking{VenueID: "room", Date: testDay, Slot: 1, RequestID: "req-1"})
	require.NoError(t, err)
	for _, slots := range []string{"2,3", "3", "bad"} {
		_, err = store.Requests().Create(ctx, &domain.BookingRequest{VenueID: "room", Date: testDay, TimingSlots: slots, CCAID: "band"})
		require.NoError(t, err)
	}

	uc := NewUseCase(store.Venues(), store.Bookings(), store.Requests(), logger.NewNop(), time.Second)
	resp, err := uc.Execute(ctx, &Request{VenueID: "room", Date: "2025-10-15"})
	require.NoError(t, err)

	assert.Equal(t, "Music Room", resp.VenueName)
	require.Len(t, resp.Slots, 4)

	want := []Slot{
		{Index: 0, StartTime: types.TimeString("10:00"), DurationMinutes: 30},
		{Index: 1, StartTime: types.TimeString("10:30"), DurationMinutes: 30, Booked: true, RequestID: "req-1"},
		{Index: 2, StartTime: types.TimeString("11:00"), DurationMinutes: 30, PendingRequests: 1},
		{Index: 3, StartTime: types.TimeString("11:30"), DurationMinutes: 30, PendingRequests: 2},
	}
	assert.Equal(t, want, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	store := memstore.New()
	uc := NewUseCase(store.Venues(), store.Bookings(), store.Requests(), logger.NewNop(), time.Second)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{VenueID: "room", Date: "2025-13-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{VenueID: "", Date: "2025-10-15"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{VenueID: "room", Date: "2025-10-15"})
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func seedRoom(t *testing.T, store *memstore.Store) {
	t.Helper()
	_, err := store.Venues().Create(context.Background(), &domain.Venue{ID: "room", Name: "Music Room", Visible: true, OpenTime: "10:00", CloseTime: "12:00"})
	require.NoError(t, err)
}

func TestExecute_StoreTimeout(t *testing.T) {
	store := memstore.New()
	seedRoom(t, store)
	store.SetLatency(memstore.OpFindBookings, 500*time.Millisecond)

	uc := NewUseCase(store.Venues(), store.Bookings(), store.Requests(), logger.NewNop(), 20*time.Millisecond)

	started := time.Now()
	_, err := uc.Execute(context.Background(), &Request{VenueID: "room", Date: "2025-10-15"})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Less(t, time.Since(started), 400*time.Millisecond)
}

func TestExecute_StoreFailure(t *testing.T) {
	errDown := errors.New("connection refused")

	for _, op := range []string{memstore.OpGetVenue, memstore.OpFindBookings, memstore.OpFindRequests} {
		t.Run(op, func(t *testing.T) {
			store := memstore.New()
			seedRoom(t, store)
			store.FailOn(op, errDown, 1)

			uc := NewUseCase(store.Venues(), store.Bookings(), store.Requests(), logger.NewNop(), time.Second)
			_, err := uc.Execute(context.Background(), &Request{VenueID: "room", Date: "2025-10-15"})

			assert.ErrorIs(t, err, ErrStoreUnavailable)
			assert.ErrorIs(t, err, errDown)
		})
	}
}
