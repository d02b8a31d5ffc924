package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса.
// Методы-регистраторы допускают nil получатель, когда метрики выключены.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec
	DBWaitCount     prometheus.Gauge

	BookingOutcomes *prometheus.CounterVec
	SlotsGenerated  *prometheus.HistogramVec
}

// New создает метрики и регистрирует их в стандартном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database call latency by operation",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation", "status"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),

		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_wait_total",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		BookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_outcomes_total",
			Help:        "Appointment creation attempts by outcome and rejection reason",
			ConstLabels: labels,
		}, []string{"outcome", "reason"}),

		SlotsGenerated: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "slots_generated",
			Help:        "Number of slots returned per availability request",
			ConstLabels: labels,
			Buckets:     []float64{0, 4, 8, 16, 32, 48, 64, 96, 144, 288},
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBConnections,
		m.DBWaitCount,
		m.BookingOutcomes,
		m.SlotsGenerated,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveDBQuery фиксирует обращение к базе данных
func (m *Metrics) ObserveDBQuery(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.DBWaitCount.Set(float64(stats.WaitCount))
}

// RecordBookingCreated фиксирует успешно созданную запись
func (m *Metrics) RecordBookingCreated() {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues("created", "").Inc()
}

// RecordBookingRejected фиксирует отказ в записи с указанием причины
func (m *Metrics) RecordBookingRejected(reason string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues("rejected", reason).Inc()
}

// ObserveSlots фиксирует количество сгенерированных и доступных слотов
func (m *Metrics) ObserveSlots(total, available int) {
	if m == nil {
		return
	}
	m.SlotsGenerated.WithLabelValues("total").Observe(float64(total))
	m.SlotsGenerated.WithLabelValues("available").Observe(float64(available))
}
