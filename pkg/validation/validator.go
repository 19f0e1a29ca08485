// Package validation provides the save-time flow check, structural checks for
// flows loaded from outside the editor, and request validation for the HTTP host.
package validation

import (
	"fmt"
	"strings"
)

// Validator interface for custom validation
// PRINCIPLES:
// - ISP: Simple interface with single method
// - DIP: Depend on interface, not concrete types
type Validator interface {
	Validate() error
}

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the names of the offending fields in order
func (e ValidationErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, err := range e {
		out = append(out, err.Field)
	}
	return out
}
