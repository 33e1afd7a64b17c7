package get_venue_slots

import "github.com/keviiweb/VBS-sub000/pkg/types"

// Request модель запроса на получение слотов площадки
type Request struct {
	VenueID string // ID площадки
	Date    string // Дата "2025-10-15"
}

// Response модель ответа со слотами площадки на дату
type Response struct {
	VenueID   string
	VenueName string
	Date      string
	Slots     []Slot
}

// Slot состояние одного слота
type Slot struct {
	Index           int              // Индекс слота в дне площадки
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	Booked          bool             // Слот подтверждён для заявки
	RequestID       string           // ID заявки, которой принадлежит слот
	PendingRequests int              // Сколько ожидающих заявок претендует на слот
}
