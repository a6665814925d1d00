package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formdesk/pkg/domain"
)

// Outcome is the cacheable result of one build: exactly one field is set.
type Outcome struct {
	Model  *Model         `json:"model,omitempty"`
	Notice *DegradeNotice `json:"notice,omitempty"`
}

// Cache keeps built presentations in Redis. Recorded responses are
// immutable, so a cached presentation never goes stale; the TTL only
// bounds memory.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a Redis client. Returns nil when the client is nil so
// callers can wire the cache optionally.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(id domain.ResponseID) string {
	return "formdesk:replay:" + id.String()
}

// Get returns the cached outcome or (nil, nil) on a miss. Redis failures
// surface as errors for the caller to log; a broken cache never breaks a
// replay request.
func (c *Cache) Get(ctx context.Context, id domain.ResponseID) (*Outcome, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replay cache get: %w", err)
	}
	var out Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("replay cache decode: %w", err)
	}
	return &out, nil
}

// Set stores an outcome.
func (c *Cache) Set(ctx context.Context, id domain.ResponseID, out *Outcome) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("replay cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(id), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("replay cache set: %w", err)
	}
	return nil
}
