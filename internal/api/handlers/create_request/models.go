package create_request

import (
	"time"

	createRequest "github.com/keviiweb/VBS-sub000/internal/usecase/create_request"
)

// CreateRequestRequest HTTP request model
type CreateRequestRequest struct {
	VenueID     string `json:"venueId"`
	Date        string `json:"date"`        // "2025-10-15"
	TimingSlots string `json:"timingSlots"` // "2,3,4"
	CCAID       string `json:"ccaId"`       // ID CCA или "PERSONAL"
	Purpose     string `json:"purpose"`
	RepeatUntil string `json:"repeatUntil,omitempty"`
}

// CreatedRequestResponse HTTP response model
type CreatedRequestResponse struct {
	ID          string   `json:"id"`
	VenueID     string   `json:"venueId"`
	Date        string   `json:"date"`
	TimingSlots string   `json:"timingSlots"`
	SlotLabels  []string `json:"slotLabels"`
	Email       string   `json:"email"`
	CCAID       string   `json:"ccaId"`
	Purpose     string   `json:"purpose"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
}

// CreateRequestResponse HTTP response model
type CreateRequestResponse struct {
	Requests []CreatedRequestResponse `json:"requests"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRequestRequest) ToUseCaseRequest(email string) *createRequest.Request {
	return &createRequest.Request{
		Email:       email,
		VenueID:     r.VenueID,
		Date:        r.Date,
		TimingSlots: r.TimingSlots,
		CCAID:       r.CCAID,
		Purpose:     r.Purpose,
		RepeatUntil: r.RepeatUntil,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *createRequest.Response) *CreateRequestResponse {
	result := &CreateRequestResponse{
		Requests: make([]CreatedRequestResponse, 0, len(resp.Requests)),
	}
	for _, r := range resp.Requests {
		result.Requests = append(result.Requests, CreatedRequestResponse{
			ID:          r.ID,
			VenueID:     r.VenueID,
			Date:        r.Date,
			TimingSlots: r.TimingSlots,
			SlotLabels:  r.SlotLabels,
			Email:       r.Email,
			CCAID:       r.CCAID,
			Purpose:     r.Purpose,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		})
	}
	return result
}
