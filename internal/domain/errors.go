package domain

import "errors"

var (
	// ErrMalformedSlotData возвращается, когда сохранённые слоты не разбираются или выходят за часы работы
	ErrMalformedSlotData = errors.New("domain: malformed slot data")

	// ErrInvalidTimeRange возвращается при некорректном диапазоне времени сессии
	ErrInvalidTimeRange = errors.New("domain: invalid time range")

	// ErrInvalidDay возвращается при некорректной дате
	ErrInvalidDay = errors.New("domain: invalid day")
)
