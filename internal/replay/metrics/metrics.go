package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the replay counters.
type Metrics struct {
	ReplaysBuilt *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
}

// New creates and registers all replay metrics.
func New() *Metrics {
	return &Metrics{
		ReplaysBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formdesk_replays_built_total",
			Help: "Replay presentations built, labeled by outcome (structured or degraded)",
		}, []string{"outcome"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_replay_cache_hits_total",
			Help: "Replay presentations served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_replay_cache_misses_total",
			Help: "Replay cache lookups that required a rebuild",
		}),
	}
}

// RecordBuild counts one built presentation by outcome.
func (m *Metrics) RecordBuild(outcome string) {
	if m == nil {
		return
	}
	m.ReplaysBuilt.WithLabelValues(outcome).Inc()
}

// RecordCacheHit counts a cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// RecordCacheMiss counts a cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
