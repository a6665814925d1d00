package replay

import (
	"context"
	"log/slog"

	"formdesk/internal/audit"
	replaymetrics "formdesk/internal/replay/metrics"
	"formdesk/internal/response"
)

// Service composes the pure builder with the optional cache, metrics, and
// audit trail. The builder alone is enough for tests; the service is what
// the transport layer talks to.
type Service struct {
	builder   *Builder
	cache     *Cache
	publisher *audit.Publisher
	metrics   *replaymetrics.Metrics
	logger    *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithCache wires the Redis presentation cache.
func WithCache(c *Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithAuditPublisher wires replay events into the audit trail.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics wires prometheus counters.
func WithMetrics(m *replaymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(builder *Builder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{builder: builder, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build reconstructs the presentation for a stored response, serving from
// cache when possible. Cache failures are logged and bypassed: replay
// availability never depends on Redis.
func (s *Service) Build(ctx context.Context, resp *response.FormResponse) *Outcome {
	if resp != nil {
		if cached, err := s.cache.Get(ctx, resp.ID); err != nil {
			s.logger.WarnContext(ctx, "replay cache read failed", "response_id", resp.ID.String(), "error", err)
		} else if cached != nil {
			s.metrics.RecordCacheHit()
			return cached
		} else if s.cache != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	model, notice := s.builder.Build(resp)
	out := &Outcome{Model: model, Notice: notice}

	if model != nil {
		s.metrics.RecordBuild("structured")
	} else {
		s.metrics.RecordBuild("degraded")
	}

	if resp != nil {
		if err := s.cache.Set(ctx, resp.ID, out); err != nil {
			s.logger.WarnContext(ctx, "replay cache write failed", "response_id", resp.ID.String(), "error", err)
		}
		s.publisher.Emit(ctx, audit.Event{
			Action:     audit.ActionResponseReplayed,
			FormID:     resp.FormID.String(),
			ResponseID: resp.ID.String(),
		})
	}
	return out
}
