package get_venue_slots

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("get_venue_slots: venue not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_venue_slots: invalid input data")

	// ErrStoreUnavailable возвращается, когда хранилище не ответило или не уложилось в таймаут
	ErrStoreUnavailable = errors.New("get_venue_slots: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_venue_slots: internal error")
)
