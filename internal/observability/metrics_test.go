package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, 5*time.Millisecond)
	m.RecordJob("classify_ticket", OutcomeSuccess)
	m.RecordClassification(OutcomeSkipped)
	m.RecordWebhook(OutcomeFailure)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/tickets", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("classify_ticket", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhooks.WithLabelValues(OutcomeFailure)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordJob("j", OutcomeFailure)
		m.RecordClassification(OutcomeSuccess)
		m.RecordWebhook(OutcomeSuccess)
	})
}
