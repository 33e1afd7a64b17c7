package create_request

import "time"

// Request модель запроса на создание заявки
type Request struct {
	Email       string `validate:"required,email"`
	VenueID     string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02"` // "2025-10-15"
	TimingSlots string `validate:"required"`                     // "2,3,4"
	CCAID       string `validate:"required"`                     // ID CCA или PERSONAL
	Purpose     string `validate:"required,max=500"`

	// RepeatUntil последняя дата еженедельного повтора (опционально)
	RepeatUntil string `validate:"omitempty,datetime=2006-01-02"`
}

// Response модель ответа с созданными заявками
// Для повторяющейся заявки - по одной на каждую дату
type Response struct {
	Requests []CreatedRequest
}

// CreatedRequest созданная заявка
type CreatedRequest struct {
	ID          string
	VenueID     string
	Date        string
	TimingSlots string
	SlotLabels  []string // "10:00", "10:30", ...
	Email       string
	CCAID       string
	Purpose     string
	Status      string
	CreatedAt   time.Time
}
