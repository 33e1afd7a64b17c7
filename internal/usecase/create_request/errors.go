package create_request

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("create_request: venue not found")

	// ErrVenueNotBookable возвращается, когда площадка скрыта от бронирования
	ErrVenueNotBookable = errors.New("create_request: venue is not open for booking")

	// ErrCCANotFound возвращается, когда CCA не найдена
	ErrCCANotFound = errors.New("create_request: cca not found")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("create_request: invalid booking date")

	// ErrInvalidTimeSlot возвращается, когда слоты не разбираются или выходят за часы работы
	ErrInvalidTimeSlot = errors.New("create_request: invalid time slots")

	// ErrDuplicateRequest возвращается, когда у владельца уже есть активная заявка на эти слоты
	ErrDuplicateRequest = errors.New("create_request: duplicate request for these slots")

	// ErrSlotNotAvailable возвращается, когда слоты уже подтверждены для другой заявки
	ErrSlotNotAvailable = errors.New("create_request: slots are already booked")

	// ErrTooManyOccurrences возвращается, когда повторяющаяся заявка разворачивается в слишком много дат
	ErrTooManyOccurrences = errors.New("create_request: too many recurring occurrences")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_request: invalid input data")

	// ErrStoreUnavailable возвращается при ошибке или таймауте хранилища
	ErrStoreUnavailable = errors.New("create_request: store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_request: internal error")
)
