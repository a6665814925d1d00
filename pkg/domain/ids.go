package domain

import (
	"github.com/google/uuid"

	dErrors "formdesk/pkg/domain-errors"
)

// Typed UUID wrappers keep form and response identifiers from being mixed up
// at compile time. Construct via the Parse functions at trust boundaries;
// direct casting bypasses validation.

// FormID identifies a form definition.
type FormID uuid.UUID

// ResponseID identifies a recorded form response.
type ResponseID uuid.UUID

// NewFormID returns a fresh random form ID.
func NewFormID() FormID { return FormID(uuid.New()) }

// NewResponseID returns a fresh random response ID.
func NewResponseID() ResponseID { return ResponseID(uuid.New()) }

// ParseFormID validates and returns a FormID from external input.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID; no other errors are expected.
func ParseFormID(s string) (FormID, error) {
	u, err := parseID(s, "form id")
	if err != nil {
		return FormID{}, err
	}
	return FormID(u), nil
}

// ParseResponseID validates and returns a ResponseID from external input.
func ParseResponseID(s string) (ResponseID, error) {
	u, err := parseID(s, "response id")
	if err != nil {
		return ResponseID{}, err
	}
	return ResponseID(u), nil
}

func parseID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", label)
	}
	return u, nil
}

func (id FormID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id FormID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ResponseID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id ResponseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText implements encoding.TextMarshaler so IDs serialize as their
// canonical UUID string in JSON payloads and map keys.
func (id FormID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *FormID) UnmarshalText(b []byte) error {
	parsed, err := ParseFormID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ResponseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ResponseID) UnmarshalText(b []byte) error {
	parsed, err := ParseResponseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
