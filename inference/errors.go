package inference

import (
	"fmt"
	"strings"
)

// FieldError is one schema violation in a request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field, not just the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// UnknownCategoryError means a field value is outside the frozen training
// vocabulary. The request is rejected rather than mapped to some default,
// so the input distribution the model was fit on never silently shifts.
type UnknownCategoryError struct {
	Feature string
	Value   string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for feature %q", e.Value, e.Feature)
}
