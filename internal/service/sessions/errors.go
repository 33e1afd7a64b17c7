package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("sessions.service: session not found")

	// ErrCCANotFound возвращается, когда CCA не найдена
	ErrCCANotFound = errors.New("sessions.service: cca not found")

	// ErrSessionConflict возвращается, когда время сессии пересекается с другой сессией той же CCA
	ErrSessionConflict = errors.New("sessions.service: session time conflicts with another session")

	// ErrSessionLocked возвращается при изменении закрытой для редактирования сессии
	ErrSessionLocked = errors.New("sessions.service: session is locked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sessions.service: invalid input")

	// ErrStoreUnavailable возвращается при ошибке или таймауте хранилища
	ErrStoreUnavailable = errors.New("sessions.service: store unavailable")
)
