package domain

// Slot model constants
const (
	// SlotDurationMinutes фиксированная длительность одного слота
	SlotDurationMinutes = 30

	// SessionSlotsPerDay количество слотов в сутках для расписания сессий CCA
	SessionSlotsPerDay = 24 * 60 / SlotDurationMinutes
)

// PersonalCCA sentinel value of BookingRequest.CCAID for personal (non-CCA) requests
const PersonalCCA = "PERSONAL"

// ConflictRejectionReason причина автоматического отклонения конкурирующей заявки
const ConflictRejectionReason = "Conflicting timeslot with another booking request"

// SystemActor идентификатор системы в аудите и уведомлениях
const SystemActor = "system"

// Business validation constants
const (
	MaxPurposeLength = 500
	MaxReasonLength  = 500
	// MaxRecurringOccurrences ограничивает разворачивание повторяющейся заявки
	MaxRecurringOccurrences = 52
)

// Time format constants
const (
	TimeFormat      = "15:04"      // HH:MM
	DateFormat      = "2006-01-02" // YYYY-MM-DD
	TimeRangeFormat = "%s - %s"    // "HH:MM - HH:MM"
)
