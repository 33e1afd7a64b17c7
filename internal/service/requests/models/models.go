package models

import (
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Response модели

// RequestResponse ответ с данными заявки
type RequestResponse struct {
	ID              string   `json:"id"`
	VenueID         string   `json:"venueId"`
	Date            string   `json:"date"`        // "2025-10-15"
	TimingSlots     string   `json:"timingSlots"` // "2,3,4"
	Email           string   `json:"email"`
	CCAID           string   `json:"ccaId"`
	Purpose         string   `json:"purpose"`
	Status          string   `json:"status"`
	ConflictRequest []string `json:"conflictRequest"`
	Reason          *string  `json:"reason,omitempty"`
	DecidedBy       *string  `json:"decidedBy,omitempty"`
	Version         int64    `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RequestListResponse ответ со списком заявок
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
}

// ApproveResponse результат одобрения: заявка и заявки, отклонённые каскадом
type ApproveResponse struct {
	Request            RequestResponse   `json:"request"`
	CascadedRejections []RequestResponse `json:"cascadedRejections"`
}

// ConflictsResponse заявки, конфликтующие с заявкой
type ConflictsResponse struct {
	RequestID string            `json:"requestId"`
	Conflicts []RequestResponse `json:"conflicts"`
}

// PurgeResponse результат массового удаления
type PurgeResponse struct {
	DeletedRequests int64 `json:"deletedRequests"`
	DeletedBookings int64 `json:"deletedBookings"`
}

// Методы конвертации

// FromDomainRequest конвертирует domain модель в DTO
func FromDomainRequest(r *domain.BookingRequest) *RequestResponse {
	if r == nil {
		return nil
	}

	conflicts := r.ConflictRequest
	if conflicts == nil {
		conflicts = []string{}
	}

	return &RequestResponse{
		ID:              r.ID,
		VenueID:         r.VenueID,
		Date:            r.Date.String(),
		TimingSlots:     r.TimingSlots,
		Email:           r.Email,
		CCAID:           r.CCAID,
		Purpose:         r.Purpose,
		Status:          r.Status.String(),
		ConflictRequest: conflicts,
		Reason:          r.Reason,
		DecidedBy:       r.DecidedBy,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// FromDomainRequestList конвертирует список domain моделей в DTO
func FromDomainRequestList(requests []*domain.BookingRequest) []RequestResponse {
	result := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, *FromDomainRequest(r))
	}
	return result
}
