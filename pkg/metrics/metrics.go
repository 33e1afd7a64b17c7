package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы игнорируются
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbWaitCount     *prometheus.GaugeVec

	transitionsTotal    *prometheus.CounterVec
	cascadedRejections  *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
	auditDroppedEntries *prometheus.CounterVec
}

// New создает и регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}, []string{}),
		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}, []string{}),
		dbIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}, []string{}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}, []string{}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_request_transitions_total",
			Help:        "Booking request state transitions by target status and outcome",
			ConstLabels: labels,
		}, []string{"status", "outcome"}),
		cascadedRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_request_cascaded_rejections_total",
			Help:        "Pending requests rejected automatically after a conflicting approval",
			ConstLabels: labels,
		}, []string{}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notification deliveries by event and result",
			ConstLabels: labels,
		}, []string{"event", "result"}),
		auditDroppedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "audit_dropped_entries_total",
			Help:        "Audit log entries dropped because the queue was full or the write failed",
			ConstLabels: labels,
		}, []string{}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.transitionsTotal,
		m.cascadedRejections,
		m.notificationsTotal,
		m.auditDroppedEntries,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет статистику пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues().Set(float64(open))
	m.dbInUseConns.WithLabelValues().Set(float64(inUse))
	m.dbIdleConns.WithLabelValues().Set(float64(idle))
	m.dbWaitCount.WithLabelValues().Set(float64(waitCount))
}

// IncTransition фиксирует попытку перехода заявки в статус
func (m *Metrics) IncTransition(status, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status, outcome).Inc()
}

// AddCascadedRejections фиксирует автоматически отклонённые заявки
func (m *Metrics) AddCascadedRejections(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.cascadedRejections.WithLabelValues().Add(float64(n))
}

// IncNotification фиксирует результат доставки уведомления
func (m *Metrics) IncNotification(event, result string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(event, result).Inc()
}

// IncAuditDropped фиксирует потерянную запись аудита
func (m *Metrics) IncAuditDropped() {
	if m == nil {
		return
	}
	m.auditDroppedEntries.WithLabelValues().Inc()
}
