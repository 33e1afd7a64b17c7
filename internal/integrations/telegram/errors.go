package telegram

import "errors"

var (
	// ErrUnauthorized возвращается, когда токен бота недействителен
	ErrUnauthorized = errors.New("telegram client: unauthorized")

	// ErrChatNotFound возвращается, когда чат не найден или бот не может в него писать
	ErrChatNotFound = errors.New("telegram client: chat not found")

	// ErrRateLimited возвращается при превышении лимита запросов
	ErrRateLimited = errors.New("telegram client: rate limited")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от API
	ErrInvalidResponse = errors.New("telegram client: invalid response")
)
