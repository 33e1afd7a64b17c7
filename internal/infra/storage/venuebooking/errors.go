package venuebooking

import "errors"

var (
	// ErrSlotTaken возвращается, когда слот площадки на дату уже подтверждён другой заявкой
	ErrSlotTaken = errors.New("venuebooking.repository: slot already booked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("venuebooking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("venuebooking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("venuebooking.repository: failed to scan row")
)
