package cca

import "errors"

var (
	// ErrCCANotFound возвращается, когда CCA не найдена
	ErrCCANotFound = errors.New("cca.repository: cca not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("cca.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("cca.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("cca.repository: failed to scan row")
)
