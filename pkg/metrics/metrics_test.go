package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", "200", time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, errors.New("boom"))
		m.SetDBPoolStats(1, 1, 0, 0)
		m.IncTransition("approved", "ok")
		m.AddCascadedRejections(2)
		m.IncNotification("booking.approved", "sent")
		m.IncAuditDropped()
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("vbs-test", prometheus.NewRegistry())

	m.IncTransition("approved", "ok")
	m.IncTransition("approved", "ok")
	m.AddCascadedRejections(3)
	m.AddCascadedRejections(0)
	m.ObserveDBQuery("exec", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("approved", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cascadedRejections.WithLabelValues()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("exec")))
}
