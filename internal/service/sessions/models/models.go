package models

import (
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Request модели

// CreateSessionInput входные данные для создания сессии
type CreateSessionInput struct {
	CCAID     string
	Date      string // "2025-10-15"
	Name      string
	Time      string // "14:00 - 16:00"
	Optional  bool
	Remarks   string
	CreatedBy string
}

// UpdateSessionInput изменения сессии; nil поля не меняются
type UpdateSessionInput struct {
	ID       string
	Date     *string
	Name     *string
	Time     *string
	Optional *bool
	Remarks  *string
	Actor    string
}

// Response модели

// SessionResponse ответ с данными сессии
type SessionResponse struct {
	ID              string    `json:"id"`
	CCAID           string    `json:"ccaId"`
	Date            string    `json:"date"`
	Name            string    `json:"name"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration"`
	Editable        bool      `json:"editable"`
	Optional        bool      `json:"optional"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.CCASession) *SessionResponse {
	if s == nil {
		return nil
	}

	return &SessionResponse{
		ID:              s.ID,
		CCAID:           s.CCAID,
		Date:            s.Date.String(),
		Name:            s.Name,
		Time:            s.Time,
		DurationMinutes: s.DurationMinutes,
		Editable:        s.Editable,
		Optional:        s.Optional,
		Remarks:         s.Remarks,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
