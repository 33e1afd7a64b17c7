package create_session

import "github.com/keviiweb/VBS-sub000/internal/service/sessions/models"

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	Date     string `json:"date"` // "2025-10-15"
	Name     string `json:"name"`
	Time     string `json:"time"` // "14:00 - 16:00"
	Optional bool   `json:"optional"`
	Remarks  string `json:"remarks,omitempty"`
}

// ToServiceInput конвертирует HTTP запрос в модель сервиса
func (r *CreateSessionRequest) ToServiceInput(ccaID, createdBy string) models.CreateSessionInput {
	return models.CreateSessionInput{
		CCAID:     ccaID,
		Date:      r.Date,
		Name:      r.Name,
		Time:      r.Time,
		Optional:  r.Optional,
		Remarks:   r.Remarks,
		CreatedBy: createdBy,
	}
}
