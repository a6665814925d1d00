package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the response pipeline counters.
type Metrics struct {
	ResponsesRecorded *prometheus.CounterVec
}

// New creates and registers all response metrics.
func New() *Metrics {
	return &Metrics{
		ResponsesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formdesk_responses_recorded_total",
			Help: "Responses recorded, labeled by payload kind (raw or enriched)",
		}, []string{"kind"}),
	}
}

// RecordResponse counts one recorded response by payload kind.
func (m *Metrics) RecordResponse(kind string) {
	if m == nil {
		return
	}
	m.ResponsesRecorded.WithLabelValues(kind).Inc()
}
