package response

import (
	"context"
	"sort"
	"sync"

	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
)

// InMemoryStore keeps responses in process memory for tests and single
// instance deployments without a database.
type InMemoryStore struct {
	mu        sync.RWMutex
	responses map[domain.ResponseID]*FormResponse
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{responses: make(map[domain.ResponseID]*FormResponse)}
}

func (s *InMemoryStore) Save(_ context.Context, resp *FormResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[resp.ID] = resp.clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ResponseID) (*FormResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp, ok := s.responses[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return resp.clone(), nil
}

func (s *InMemoryStore) ListByForm(_ context.Context, formID domain.FormID) ([]*FormResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*FormResponse
	for _, resp := range s.responses {
		if resp.FormID == formID {
			out = append(out, resp.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
