package telegram

// SendMessageRequest тело запроса sendMessage
type SendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// APIResponse ответ Telegram Bot API
type APIResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}
