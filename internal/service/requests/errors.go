package requests

import "errors"

var (
	// ErrNotFound возвращается, когда заявка не найдена
	ErrNotFound = errors.New("requests.service: request not found")

	// ErrInvalidTransition возвращается, когда переход из текущего статуса запрещён
	ErrInvalidTransition = errors.New("requests.service: invalid status transition")

	// ErrMissingReason возвращается при отклонении без причины
	ErrMissingReason = errors.New("requests.service: rejection reason is required")

	// ErrConcurrentModification возвращается, когда заявку или её слоты одновременно изменили
	ErrConcurrentModification = errors.New("requests.service: concurrent modification")

	// ErrMalformedSlotData возвращается, когда слоты заявки или конкурирующих заявок не разбираются
	ErrMalformedSlotData = errors.New("requests.service: malformed slot data")

	// ErrStoreUnavailable возвращается при ошибке или таймауте хранилища
	ErrStoreUnavailable = errors.New("requests.service: store unavailable")

	// ErrAlreadyResolved возвращается, когда слоты заявки уже заняты подтверждёнными бронированиями
	ErrAlreadyResolved = errors.New("requests.service: slots already confirmed for another request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("requests.service: invalid input")
)
