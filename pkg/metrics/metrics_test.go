package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.RecordBookingCreated()
	m.RecordBookingRejected("conflict")
	m.RecordBookingRejected("conflict")
	m.ObserveHTTPRequest("GET", "/api/v1/x", "200", 10*time.Millisecond)
	m.SetDBPoolStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues("created", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues("rejected", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/x", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DBConnections.WithLabelValues("idle")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegisterer("a", prometheus.NewRegistry())
		NewWithRegisterer("b", prometheus.NewRegistry())
	})
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordBookingCreated()
		m.RecordBookingRejected("conflict")
		m.ObserveSlots(10, 3)
	})
}
