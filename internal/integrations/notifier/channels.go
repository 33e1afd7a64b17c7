package notifier

import "context"

// Publisher публикация JSON в брокер сообщений (*mq.Publisher)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// MQChannel публикует события в RabbitMQ; тип события служит routing key
type MQChannel struct {
	publisher Publisher
}

// NewMQChannel создает канал RabbitMQ
func NewMQChannel(publisher Publisher) *MQChannel {
	return &MQChannel{publisher: publisher}
}

// Name имя канала
func (c *MQChannel) Name() string {
	return "rabbitmq"
}

// Send публикует событие
func (c *MQChannel) Send(ctx context.Context, event Event) error {
	return c.publisher.PublishJSON(ctx, string(event.Type), event)
}

// MessageSender отправка текстового сообщения (*telegram.Client)
type MessageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// TextChannel отправляет краткое описание события в текстовый мессенджер
type TextChannel struct {
	name   string
	sender MessageSender
}

// NewTextChannel создает текстовый канал
func NewTextChannel(name string, sender MessageSender) *TextChannel {
	return &TextChannel{name: name, sender: sender}
}

// Name имя канала
func (c *TextChannel) Name() string {
	return c.name
}

// Send отправляет сообщение
func (c *TextChannel) Send(ctx context.Context, event Event) error {
	return c.sender.SendMessage(ctx, event.Summary())
}
