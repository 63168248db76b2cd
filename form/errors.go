package form

import (
	"fmt"
	"strings"
)

// FieldError reports one field that failed its range or enum constraint
// during an explicit overwrite.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates every rejected field of a single overwrite, in
// declaration order.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return "invalid field values: " + strings.Join(parts, "; ")
}
