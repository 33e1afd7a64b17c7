package get_venue_slots

import getVenueSlots "github.com/keviiweb/VBS-sub000/internal/usecase/get_venue_slots"

// VenueSlotsResponse HTTP response model
type VenueSlotsResponse struct {
	VenueID   string         `json:"venueId"`
	VenueName string         `json:"venueName"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	Index           int    `json:"index"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Booked          bool   `json:"booked"`
	RequestID       string `json:"requestId,omitempty"`
	PendingRequests int    `json:"pendingRequests"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getVenueSlots.Response) *VenueSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Index:           s.Index,
			StartTime:       s.StartTime.String(),
			DurationMinutes: s.DurationMinutes,
			Booked:          s.Booked,
			RequestID:       s.RequestID,
			PendingRequests: s.PendingRequests,
		})
	}

	return &VenueSlotsResponse{
		VenueID:   resp.VenueID,
		VenueName: resp.VenueName,
		Date:      resp.Date,
		Slots:     slots,
	}
}
