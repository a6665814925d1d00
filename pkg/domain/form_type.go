package domain

import (
	"strings"

	dErrors "formdesk/pkg/domain-errors"
)

// FormType is the semantic category of a form definition.
// Invariant: the value is one of the canonical tags below; TypeUnset marks a
// definition whose type has not been assigned yet.
//
// Cardinality: Registration and Contact admit at most one live holder each.
// Service is unbounded (each service intake questionnaire carries it).
//
// Usage: construct via ParseFormType at trust boundaries; direct casting
// bypasses the alias table and validation.
type FormType string

const (
	TypeUnset        FormType = ""
	TypeRegistration FormType = "registration"
	TypeContact      FormType = "contact"
	TypeService      FormType = "service"
)

// formTypeAliases is the single source of truth for accepted spellings.
// Input is lowercased before lookup, so entries are lowercase canonical or
// legacy aliases observed in stored data. Unrecognized input is rejected,
// never defaulted.
var formTypeAliases = map[string]FormType{
	"registration":      TypeRegistration,
	"register":          TypeRegistration,
	"registration_form": TypeRegistration,
	"contact":           TypeContact,
	"contact_form":      TypeContact,
	"contactus":         TypeContact,
	"service":           TypeService,
	"service_form":      TypeService,
	"intake":            TypeService,
}

// ParseFormType normalizes external input to a canonical FormType.
// Matching is case-insensitive and tolerant of surrounding whitespace.
//
// Errors: CodeInvalidInput when the value is empty or not a known alias.
func ParseFormType(s string) (FormType, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return TypeUnset, dErrors.New(dErrors.CodeInvalidInput, "form type cannot be empty")
	}
	t, ok := formTypeAliases[raw]
	if !ok {
		return TypeUnset, dErrors.Newf(dErrors.CodeInvalidInput, "unknown form type %q", s)
	}
	return t, nil
}

// IsValid reports whether the type is one of the canonical assigned tags.
func (t FormType) IsValid() bool {
	switch t {
	case TypeRegistration, TypeContact, TypeService:
		return true
	}
	return false
}

// Constrained reports whether the type admits at most one live holder.
func (t FormType) Constrained() bool {
	return t == TypeRegistration || t == TypeContact
}

// String returns the canonical tag.
func (t FormType) String() string { return string(t) }
