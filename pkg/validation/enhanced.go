package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
)

// Validate is the shared go-playground validator instance
var Validate *validator.Validate

var nodeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	Validate = validator.New()

	// Register custom validation functions
	_ = Validate.RegisterValidation("node_id", validateNodeID)
	_ = Validate.RegisterValidation("edge_id", validateEdgeID)
	_ = Validate.RegisterValidation("node_kind", validateNodeKind)

	// Report JSON field names instead of Go field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateWithPlayground validates a struct using its `validate` tags, then
// its own Validate method when it implements Validator.
func ValidateWithPlayground(s interface{}) error {
	if err := Validate.Struct(s); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("cannot validate %T: %w", s, err)
		}
		return formatValidationErrors(err)
	}
	if v, ok := s.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// formatValidationErrors converts validator errors to our custom format
func formatValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			out = append(out, ValidationError{
				Field:   fe.Field(),
				Value:   fe.Value(),
				Message: getErrorMessage(fe),
			})
		}
	}

	return out
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "node_id":
		return "must be a valid node identifier (alphanumeric, underscore, hyphen)"
	case "edge_id":
		return "must be a valid edge identifier"
	case "node_kind":
		return "must be a registered node kind"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

// validateNodeID validates node identifier format
func validateNodeID(fl validator.FieldLevel) bool {
	nodeID := fl.Field().String()
	return len(nodeID) >= 1 && len(nodeID) <= 100 && nodeIDPattern.MatchString(nodeID)
}

// validateEdgeID accepts identifiers produced by graph.EdgeID
func validateEdgeID(fl validator.FieldLevel) bool {
	edgeID := fl.Field().String()
	rest, ok := strings.CutPrefix(edgeID, "edge_")
	if !ok {
		return false
	}
	return strings.Contains(rest, "-") && len(edgeID) <= 210
}

// validateNodeKind accepts kinds registered with the graph package
func validateNodeKind(fl validator.FieldLevel) bool {
	return graph.IsKnownKind(graph.NodeKind(fl.Field().String()))
}

// MarshalValidationErrors marshals validation errors to JSON
func MarshalValidationErrors(errs ValidationErrors) ([]byte, error) {
	type ErrorResponse struct {
		Errors []ValidationError `json:"errors"`
		Count  int               `json:"count"`
	}

	return json.Marshal(ErrorResponse{Errors: errs, Count: len(errs)})
}

// UnmarshalValidationErrors unmarshals validation errors from JSON
func UnmarshalValidationErrors(data []byte) (ValidationErrors, error) {
	type ErrorResponse struct {
		Errors []ValidationError `json:"errors"`
		Count  int               `json:"count"`
	}

	var response ErrorResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}

	return ValidationErrors(response.Errors), nil
}
