package notifier

import "errors"

var (
	// ErrQueueFull возвращается, когда очередь уведомлений переполнена
	ErrQueueFull = errors.New("notifier: queue is full")

	// ErrStopped возвращается, когда диспетчер уже остановлен
	ErrStopped = errors.New("notifier: dispatcher stopped")
)
