package forms

import (
	"context"
	"time"

	"formdesk/pkg/domain"
)

// Store persists form definitions. Implementations return sentinel errors
// (pkg/platform/sentinel) for infrastructure facts and *TypeConflictError
// for cardinality violations; the service translates both.
type Store interface {
	Create(ctx context.Context, form *FormDefinition) error
	// Update replaces the stored record. The schema swap is atomic: readers
	// never observe a partially written page list.
	Update(ctx context.Context, form *FormDefinition) error
	FindByID(ctx context.Context, id domain.FormID) (*FormDefinition, error)
	// List returns all definitions ordered by CreatedAt descending.
	List(ctx context.Context) ([]*FormDefinition, error)
	// FindByType returns all definitions holding the given type, newest first.
	FindByType(ctx context.Context, t domain.FormType) ([]*FormDefinition, error)

	// AssignType atomically checks cardinality and sets the type. For a
	// constrained type held by a different live definition it returns
	// *TypeConflictError naming the holder; otherwise it sets the type,
	// bumps UpdatedAt to now, and returns the updated definition.
	// Reassigning a definition away from a constrained type frees the slot.
	AssignType(ctx context.Context, id domain.FormID, t domain.FormType, now time.Time) (*FormDefinition, error)
}
