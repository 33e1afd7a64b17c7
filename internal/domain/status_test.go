package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusCancelled, false},
		{StatusCancelled, StatusApproved, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRequestStatus_Predicates(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusApproved.IsActive())
	assert.False(t, StatusRejected.IsActive())

	status, ok := ParseRequestStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, StatusCancelled, status)

	_, ok = ParseRequestStatus("APPROVED")
	assert.False(t, ok)
}

func TestBookingRequest_SameOwner(t *testing.T) {
	ccaA := &BookingRequest{CCAID: "cca-1", Email: "a@u.edu"}
	ccaB := &BookingRequest{CCAID: "cca-1", Email: "b@u.edu"}
	otherCCA := &BookingRequest{CCAID: "cca-2", Email: "a@u.edu"}
	personalA := &BookingRequest{CCAID: PersonalCCA, Email: "a@u.edu"}
	personalA2 := &BookingRequest{CCAID: PersonalCCA, Email: "a@u.edu"}
	personalB := &BookingRequest{CCAID: PersonalCCA, Email: "b@u.edu"}

	assert.True(t, ccaA.SameOwner(ccaB))
	assert.False(t, ccaA.SameOwner(otherCCA))
	assert.True(t, personalA.SameOwner(personalA2))
	assert.False(t, personalA.SameOwner(personalB))
	assert.False(t, personalA.SameOwner(ccaA))
}

func TestBookingRequest_Apply(t *testing.T) {
	reason := "no"
	req := BookingRequest{ID: "r1", Status: StatusPending, Version: 3}

	updated := req.Apply(RequestPatch{Status: StatusRejected, Reason: &reason})

	assert.Equal(t, StatusRejected, updated.Status)
	assert.Equal(t, &reason, updated.Reason)
	assert.Equal(t, int64(4), updated.Version)
	assert.Equal(t, StatusPending, req.Status, "original must stay untouched")
}

func TestDay(t *testing.T) {
	d, err := ParseDay("2025-10-15")
	assert.NoError(t, err)
	assert.True(t, d.Valid())
	assert.Equal(t, "2025-10-15", d.String())

	_, err = ParseDay("15/10/2025")
	assert.ErrorIs(t, err, ErrInvalidDay)
}
