package update_session

import "github.com/keviiweb/VBS-sub000/internal/service/sessions/models"

// UpdateSessionRequest HTTP request model; отсутствующие поля не меняются
type UpdateSessionRequest struct {
	Date     *string `json:"date,omitempty"`
	Name     *string `json:"name,omitempty"`
	Time     *string `json:"time,omitempty"`
	Optional *bool   `json:"optional,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`
}

// ToServiceInput конвертирует HTTP запрос в модель сервиса
func (r *UpdateSessionRequest) ToServiceInput(sessionID, actor string) models.UpdateSessionInput {
	return models.UpdateSessionInput{
		ID:       sessionID,
		Date:     r.Date,
		Name:     r.Name,
		Time:     r.Time,
		Optional: r.Optional,
		Remarks:  r.Remarks,
		Actor:    actor,
	}
}
