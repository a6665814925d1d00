// Package forms owns form definitions: named, typed containers for a
// declarative schema. Definitions are never physically deleted; external
// workflows must detach dependents before any removal, which lives outside
// this service.
package forms

import (
	"fmt"
	"strings"
	"time"

	"formdesk/internal/schema"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
)

// FormDefinition is the aggregate root for one declared form.
//
// Invariants:
//   - Name is non-empty and at most 200 characters
//   - Type is TypeUnset until assigned through the registry
//   - UpdatedAt is bumped on every mutation and never moves backwards
//   - Schema is nullable until authored; replacement is atomic
type FormDefinition struct {
	ID          domain.FormID   `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Type        domain.FormType `json:"type,omitempty"`
	Schema      *schema.Schema  `json:"schema,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewFormDefinition constructs a definition with no type commitment.
func NewFormDefinition(id domain.FormID, name, description string, s *schema.Schema, now time.Time) (*FormDefinition, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &FormDefinition{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        domain.TypeUnset,
		Schema:      s,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "form name cannot be empty")
	}
	if len(name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "form name must be 200 characters or less")
	}
	return nil
}

// Patch carries a partial update. Nil fields are left untouched; a non-nil
// schema replaces the stored one wholesale.
type Patch struct {
	Name        *string
	Description *string
	Schema      *schema.Schema
}

// Apply mutates the definition and bumps UpdatedAt. Returns a validation
// error without mutating when the patch would break an invariant.
func (f *FormDefinition) Apply(p Patch, now time.Time) error {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if err := validateName(trimmed); err != nil {
			return err
		}
		f.Name = trimmed
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Schema != nil {
		f.Schema = p.Schema
	}
	f.UpdatedAt = now
	return nil
}

// CacheToken derives the conditional-GET validator from UpdatedAt. Callers
// outside the core decide how to use it; the HTTP layer sends it as an ETag.
func (f *FormDefinition) CacheToken() string {
	return fmt.Sprintf("%q", fmt.Sprintf("%x", f.UpdatedAt.UnixNano()))
}

// clone returns a copy safe to hand out of the in-memory store.
func (f *FormDefinition) clone() *FormDefinition {
	cp := *f
	cp.Schema = f.Schema.Clone()
	return &cp
}

// TypeConflictError reports a cardinality violation on type assignment. It
// names the current holder so callers can offer reassignment.
type TypeConflictError struct {
	Type       domain.FormType
	HolderID   domain.FormID
	HolderName string
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("form type %q is already held by form %s (%s)", e.Type, e.HolderID, e.HolderName)
}

// Code classifies the conflict for pkg/domain-errors matching.
func (e *TypeConflictError) Code() dErrors.Code { return dErrors.CodeConflict }
