package domain

// RequestStatus status of a booking request
// A request is in exactly one status at any time
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// AllStatuses список всех статусов заявки
var AllStatuses = []RequestStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}

// ActiveStatuses статусы заявок, которые занимают или претендуют на слоты
var ActiveStatuses = []RequestStatus{
	StatusPending,
	StatusApproved,
}

// transitions допустимые переходы между статусами
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

// ParseRequestStatus конвертирует строку в RequestStatus
func ParseRequestStatus(s string) (RequestStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// CanTransitionTo returns true if the status may move to next
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for decided requests
func (s RequestStatus) IsTerminal() bool {
	return s != StatusPending
}

// IsActive returns true if the request holds or claims its slots
func (s RequestStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// String возвращает строковое представление статуса
func (s RequestStatus) String() string {
	return string(s)
}
