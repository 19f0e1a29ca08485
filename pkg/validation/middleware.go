package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds request bodies decoded by DecodeJSON
const maxBodyBytes = 1 << 20

// DecodeJSON decodes a JSON request body into v and validates it.
// Decoding problems and validation failures are both returned as ValidationErrors.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ValidationErrors{{
			Field:   "request_body",
			Value:   nil,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}}
	}
	return ValidateWithPlayground(v)
}

// WriteErrorResponse writes validation errors as JSON response
func WriteErrorResponse(w http.ResponseWriter, statusCode int, err error) {
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		errs = ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorData, merr := MarshalValidationErrors(errs)
	if merr != nil {
		// Fallback error response
		_, _ = w.Write([]byte(`{"error":"validation failed","message":"internal validation error"}`))
		return
	}

	_, _ = w.Write(errorData)
}
