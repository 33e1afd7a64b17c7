package bookingrequest

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("bookingrequest.repository: request not found")

	// ErrVersionConflict возвращается, когда заявка была изменена после чтения
	ErrVersionConflict = errors.New("bookingrequest.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bookingrequest.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bookingrequest.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bookingrequest.repository: failed to scan row")
)
