package conflicts

import "errors"

var (
	// ErrMalformedSlotData возвращается, когда слоты заявки не удаётся разобрать
	// Конфликт в этом случае считается возможным: операция должна быть отклонена
	ErrMalformedSlotData = errors.New("conflicts.resolver: malformed slot data")

	// ErrStore возвращается при ошибке хранилища
	ErrStore = errors.New("conflicts.resolver: store error")
)
