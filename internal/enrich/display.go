package enrich

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"formdesk/internal/schema"
)

// Question kinds with dedicated display handling. Anything else falls
// through to raw string coercion, so an unrecognized kind can never fail
// the pipeline.
const (
	kindText       = "text"
	kindComment    = "comment"
	kindNumber     = "number"
	kindRating     = "rating"
	kindBoolean    = "boolean"
	kindRadioGroup = "radiogroup"
	kindDropdown   = "dropdown"
	kindCheckbox   = "checkbox"
	kindTagbox     = "tagbox"
)

// multiChoiceSeparator joins the display texts of multi-select answers.
const multiChoiceSeparator = ", "

// displayValue renders the human-readable form of a raw answer by
// question-type policy.
func displayValue(q schema.Question, value any) string {
	if value == nil {
		return ""
	}
	switch strings.ToLower(q.Type) {
	case kindRadioGroup, kindDropdown:
		return resolveChoice(q.Choices, value)
	case kindCheckbox, kindTagbox:
		return resolveMultiChoice(q.Choices, value)
	case kindBoolean:
		return booleanText(value)
	case kindText, kindComment, kindNumber, kindRating:
		return coerceString(value)
	default:
		return coerceString(value)
	}
}

// resolveChoice maps a stored choice value to its display text, falling
// back to the raw value when the choice list does not contain it (legacy
// answers against an edited choice list).
func resolveChoice(choices []schema.Choice, value any) string {
	raw := coerceString(value)
	for _, c := range choices {
		if c.Value == raw {
			return c.Text
		}
	}
	return raw
}

func resolveMultiChoice(choices []schema.Choice, value any) string {
	selected, ok := value.([]any)
	if !ok {
		return resolveChoice(choices, value)
	}
	parts := make([]string, 0, len(selected))
	for _, v := range selected {
		parts = append(parts, resolveChoice(choices, v))
	}
	return strings.Join(parts, multiChoiceSeparator)
}

func booleanText(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case string:
		if strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") {
			return "Yes"
		}
		return "No"
	default:
		return coerceString(value)
	}
}

// coerceString renders any raw answer value as a string. JSON numbers
// arrive as float64 and are formatted without a trailing fraction when
// integral.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, multiChoiceSeparator)
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}
