package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// EventType тип события, он же routing key в RabbitMQ
type EventType string

const (
	EventApproved  EventType = "booking.approved"
	EventRejected  EventType = "booking.rejected"
	EventCancelled EventType = "booking.cancelled"
	EventSlotFreed EventType = "booking.slot_freed"
)

// Event уведомление об изменении заявки
type Event struct {
	Type        EventType `json:"type"`
	RequestID   string    `json:"request_id"`
	VenueID     string    `json:"venue_id"`
	VenueName   string    `json:"venue_name,omitempty"`
	Date        string    `json:"date"`
	TimingSlots string    `json:"timing_slots"`
	Slots       []string  `json:"slots,omitempty"`
	CCAID       string    `json:"cca_id"`
	CCAName     string    `json:"cca_name,omitempty"`
	Email       string    `json:"email"`
	Purpose     string    `json:"purpose,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func newEvent(eventType EventType, req *domain.BookingRequest, actor, reason string, now time.Time) Event {
	return Event{
		Type:        eventType,
		RequestID:   req.ID,
		VenueID:     req.VenueID,
		Date:        req.Date.String(),
		TimingSlots: req.TimingSlots,
		CCAID:       req.CCAID,
		Email:       req.Email,
		Purpose:     req.Purpose,
		Actor:       actor,
		Reason:      reason,
		OccurredAt:  now,
	}
}

// Summary короткая строка для текстовых каналов
func (e Event) Summary() string {
	venue := e.VenueName
	if venue == "" {
		venue = e.VenueID
	}
	owner := e.CCAName
	if owner == "" {
		owner = e.CCAID
	}
	when := e.TimingSlots
	if len(e.Slots) > 0 {
		when = strings.Join(e.Slots, ", ")
	}

	line := fmt.Sprintf("[%s] %s on %s at %s for %s (%s)", e.Type, venue, e.Date, when, owner, e.Email)
	if e.Reason != "" {
		line += ": " + e.Reason
	}
	return line
}
