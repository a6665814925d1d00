package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the form-definition counters.
type Metrics struct {
	FormsCreated  prometheus.Counter
	FormsUpdated  prometheus.Counter
	TypeAssigns   *prometheus.CounterVec
	TypeConflicts *prometheus.CounterVec
}

// New creates and registers all form-definition metrics.
func New() *Metrics {
	return &Metrics{
		FormsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_forms_created_total",
			Help: "Total number of form definitions created",
		}),
		FormsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_forms_updated_total",
			Help: "Total number of form definition updates",
		}),
		TypeAssigns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formdesk_form_type_assignments_total",
			Help: "Successful form type assignments by type",
		}, []string{"form_type"}),
		TypeConflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formdesk_form_type_conflicts_total",
			Help: "Rejected form type assignments by type",
		}, []string{"form_type"}),
	}
}

// RecordAssign counts a successful type assignment.
func (m *Metrics) RecordAssign(formType string) {
	if m == nil {
		return
	}
	m.TypeAssigns.WithLabelValues(formType).Inc()
}

// RecordConflict counts a rejected assignment.
func (m *Metrics) RecordConflict(formType string) {
	if m == nil {
		return
	}
	m.TypeConflicts.WithLabelValues(formType).Inc()
}

// IncrementCreated counts a created definition.
func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.FormsCreated.Inc()
}

// IncrementUpdated counts a definition update.
func (m *Metrics) IncrementUpdated() {
	if m == nil {
		return
	}
	m.FormsUpdated.Inc()
}
