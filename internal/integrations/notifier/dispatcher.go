package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keviiweb/VBS-sub000/internal/domain"
)

// Результаты доставки для метрик
const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
)

// Config параметры диспетчера
type Config struct {
	Workers      int
	QueueSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	Timeout      time.Duration
}

// Dispatcher доставляет уведомления в фоне
// Notify* только ставят событие в очередь; ошибки доставки логируются и не возвращаются вызывающему
type Dispatcher struct {
	cfg      Config
	channels []Channel
	venues   VenueLookup
	ccas     CCALookup
	logger   Logger
	metrics  Metrics
	now      func() time.Time

	queue   chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewDispatcher создает диспетчер; воркеры запускаются методом Start
func NewDispatcher(cfg Config, venues VenueLookup, ccas CCALookup, logger Logger, metrics Metrics, channels ...Channel) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		cfg:      cfg,
		channels: channels,
		venues:   venues,
		ccas:     ccas,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
		queue:    make(chan Event, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start запускает воркеры доставки
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.stopped {
		return
	}
	d.started = true

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Info("notifier: started %d workers, %d channels", d.cfg.Workers, len(d.channels))
}

// Stop прекращает приём событий и ждёт доставки очереди
// Если ctx отменён раньше, текущие попытки доставки прерываются
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
		if !d.started {
			// Воркеров нет: очередь некому разбирать
			d.cancel()
			d.mu.Unlock()
			return nil
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// NotifyApproved уведомляет заявителя об одобрении
func (d *Dispatcher) NotifyApproved(req *domain.BookingRequest, approver string) error {
	return d.enqueue(newEvent(EventApproved, req, approver, "", d.now()))
}

// NotifyRejected уведомляет заявителя об отклонении с причиной
func (d *Dispatcher) NotifyRejected(req *domain.BookingRequest, reason string) error {
	actor := ""
	if req.DecidedBy != nil {
		actor = *req.DecidedBy
	}
	return d.enqueue(newEvent(EventRejected, req, actor, reason, d.now()))
}

// NotifyCancelled уведомляет заявителя об отмене
func (d *Dispatcher) NotifyCancelled(req *domain.BookingRequest) error {
	actor := ""
	if req.DecidedBy != nil {
		actor = *req.DecidedBy
	}
	return d.enqueue(newEvent(EventCancelled, req, actor, "", d.now()))
}

// NotifySlotFreed сообщает, что слоты отменённой одобренной заявки снова свободны
func (d *Dispatcher) NotifySlotFreed(req *domain.BookingRequest) error {
	return d.enqueue(newEvent(EventSlotFreed, req, "", "", d.now()))
}

func (d *Dispatcher) enqueue(event Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.metrics.IncNotification(string(event.Type), resultDropped)
		return ErrStopped
	}

	select {
	case d.queue <- event:
		return nil
	default:
		d.metrics.IncNotification(string(event.Type), resultDropped)
		return fmt.Errorf("%w: %s for request %s", ErrQueueFull, event.Type, event.RequestID)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.queue {
		event = d.enrich(event)
		for _, ch := range d.channels {
			d.deliver(ch, event)
		}
	}
}

// enrich дополняет событие названиями площадки и CCA и подписями слотов
// Ошибки поиска не мешают доставке: событие уходит с идентификаторами
func (d *Dispatcher) enrich(event Event) Event {
	ctx, cancel := context.WithTimeout(d.ctx, d.cfg.Timeout)
	defer cancel()

	if d.venues != nil {
		v, err := d.venues.GetByID(ctx, event.VenueID)
		if err != nil {
			d.logger.Warn("notifier: venue lookup for %s failed: %v", event.VenueID, err)
		} else {
			event.VenueName = v.Name
			if layout, err := v.SlotLayout(); err == nil {
				if slots, err := layout.ParseSlots(event.TimingSlots); err == nil {
					if labels, err := layout.Labels(slots); err == nil {
						event.Slots = make([]string, len(labels))
						for i, l := range labels {
							event.Slots[i] = l.String()
						}
					}
				}
			}
		}
	}

	if d.ccas != nil && event.CCAID != domain.PersonalCCA {
		c, err := d.ccas.GetByID(ctx, event.CCAID)
		if err != nil {
			d.logger.Warn("notifier: cca lookup for %s failed: %v", event.CCAID, err)
		} else {
			event.CCAName = c.Name
		}
	}

	return event
}

// deliver отправляет событие в канал с ограниченным числом повторов и линейной паузой
func (d *Dispatcher) deliver(ch Channel, event Event) {
	var lastErr error

	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-d.ctx.Done():
				d.logger.Warn("notifier: %s delivery of %s for %s aborted: %v", ch.Name(), event.Type, event.RequestID, d.ctx.Err())
				d.metrics.IncNotification(string(event.Type), resultFailed)
				return
			case <-time.After(time.Duration(attempt) * d.cfg.RetryBackoff):
			}
		}

		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.Timeout)
		lastErr = ch.Send(ctx, event)
		cancel()

		if lastErr == nil {
			d.metrics.IncNotification(string(event.Type), resultSent)
			return
		}
		d.logger.Warn("notifier: %s attempt %d for %s of %s failed: %v",
			ch.Name(), attempt+1, event.Type, event.RequestID, lastErr)
	}

	d.logger.Error("notifier: giving up on %s for %s of %s after %d attempts: %v",
		ch.Name(), event.Type, event.RequestID, d.cfg.MaxRetries+1, lastErr)
	d.metrics.IncNotification(string(event.Type), resultFailed)
}
