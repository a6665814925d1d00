package forms

import (
	"context"
	"sort"
	"sync"
	"time"

	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
)

// InMemoryStore keeps definitions under a single RWMutex. The write lock
// serializes AssignType's check-then-set, which is what upholds the type
// cardinality invariant for single-instance deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	forms map[domain.FormID]*FormDefinition
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{forms: make(map[domain.FormID]*FormDefinition)}
}

func (s *InMemoryStore) Create(_ context.Context, form *FormDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.forms[form.ID]; exists {
		return sentinel.ErrConflict
	}
	s.forms[form.ID] = form.clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, form *FormDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.forms[form.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.forms[form.ID] = form.clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.FormID) (*FormDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return form.clone(), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*FormDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*FormDefinition, 0, len(s.forms))
	for _, form := range s.forms {
		out = append(out, form.clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) FindByType(_ context.Context, t domain.FormType) ([]*FormDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*FormDefinition
	for _, form := range s.forms {
		if form.Type == t {
			out = append(out, form.clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) AssignType(_ context.Context, id domain.FormID, t domain.FormType, now time.Time) (*FormDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, ok := s.forms[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if t.Constrained() {
		for _, other := range s.forms {
			if other.ID != id && other.Type == t {
				return nil, &TypeConflictError{Type: t, HolderID: other.ID, HolderName: other.Name}
			}
		}
	}
	form.Type = t
	form.UpdatedAt = now
	return form.clone(), nil
}

// sortNewestFirst orders by CreatedAt descending, breaking ties by ID so
// listings are deterministic.
func sortNewestFirst(forms []*FormDefinition) {
	sort.Slice(forms, func(i, j int) bool {
		if !forms[i].CreatedAt.Equal(forms[j].CreatedAt) {
			return forms[i].CreatedAt.After(forms[j].CreatedAt)
		}
		return forms[i].ID.String() < forms[j].ID.String()
	})
}
