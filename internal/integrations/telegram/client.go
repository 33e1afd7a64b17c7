package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент Telegram Bot API для отправки уведомлений в чат
type Client struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Telegram
func NewClient(baseURL, token, chatID string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendMessage отправляет текстовое сообщение в настроенный чат
func (c *Client) SendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	body, err := json.Marshal(SendMessageRequest{ChatID: c.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusNotFound:
		return fmt.Errorf("%w: chat %s rejected the message", ErrChatNotFound, c.chatID)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	// Парсим ответ
	var result APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if !result.OK {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, result.Description)
	}

	c.log.Info("Telegram message delivered to chat %s", c.chatID)
	return nil
}
