package domain

import (
	"time"

	"github.com/keviiweb/VBS-sub000/pkg/types"
)

// Venue bookable room; a child venue is a sub-room of ParentID
type Venue struct {
	ID           string
	Name         string
	Description  string
	Capacity     int
	ParentID     *string
	IsChildVenue bool
	Visible      bool
	OpenTime     types.TimeString
	CloseTime    types.TimeString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SlotLayout returns the venue's partition of the day into 30-minute slots
func (v *Venue) SlotLayout() (SlotLayout, error) {
	return NewSlotLayout(v.OpenTime, v.CloseTime, SlotDurationMinutes)
}

// IsBookable returns true if users may submit requests for the venue
func (v *Venue) IsBookable() bool {
	return v.Visible
}
