package domain

import "time"

// BookingRequest request for a set of slots of a venue on a day
type BookingRequest struct {
	ID          string
	VenueID     string
	Date        Day
	TimingSlots string // compact slot form, see SlotLayout.ParseSlots
	Email       string // requester identity
	CCAID       string // CCA id or PersonalCCA
	Purpose     string
	Status      RequestStatus

	// ConflictRequest ids of requests rejected by this request's approval
	ConflictRequest []string
	Reason          *string
	DecidedBy       *string

	// Version optimistic concurrency token, incremented on each update
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slots parses the stored slot form against the venue layout
func (r *BookingRequest) Slots(layout SlotLayout) (SlotSet, error) {
	return layout.ParseSlots(r.TimingSlots)
}

// IsPersonal returns true if the request is not made on behalf of a CCA
func (r *BookingRequest) IsPersonal() bool {
	return r.CCAID == PersonalCCA
}

// IsPending returns true if the request awaits a decision
func (r *BookingRequest) IsPending() bool {
	return r.Status == StatusPending
}

// SameOwner returns true if both requests belong to the same CCA or,
// for personal requests, to the same requester
func (r *BookingRequest) SameOwner(other *BookingRequest) bool {
	if r.IsPersonal() || other.IsPersonal() {
		return r.IsPersonal() && other.IsPersonal() && r.Email == other.Email
	}
	return r.CCAID == other.CCAID
}

// RequestPatch изменение заявки, применяемое через compare-and-swap по версии
type RequestPatch struct {
	Status          RequestStatus
	Reason          *string
	DecidedBy       *string
	ConflictRequest []string
}

// Apply применяет patch к копии заявки
func (r BookingRequest) Apply(patch RequestPatch) *BookingRequest {
	r.Status = patch.Status
	if patch.Reason != nil {
		r.Reason = patch.Reason
	}
	if patch.DecidedBy != nil {
		r.DecidedBy = patch.DecidedBy
	}
	if patch.ConflictRequest != nil {
		r.ConflictRequest = append([]string(nil), patch.ConflictRequest...)
	}
	r.Version++
	return &r
}

// VenueBooking confirmed reservation of one slot, created only by approving a request
type VenueBooking struct {
	ID        string
	VenueID   string
	Date      Day
	Slot      int
	RequestID string
	Email     string
	CCAID     string
	Purpose   string
	BookedBy  string // approver identity
	CreatedAt time.Time
}

// AuditEntry запись журнала аудита
type AuditEntry struct {
	ID        string
	Operation string
	Actor     string
	Message   string
	CreatedAt time.Time
}
