package validation

import (
	"fmt"
	"net/http"

	"github.com/nextyfine-dev/reqcheck/pkg/httputil"
)

// ErrorCode constants for machine-readable error identification
const (
	ErrCodeRequired    = "required"
	ErrCodeType        = "type"
	ErrCodeRule        = "rule"
	ErrCodeSchema      = "schema"
	ErrCodeChecker     = "checker"
	ErrCodeInvalidJSON = "invalid_json"
)

// Location constants identify which request section an error belongs to.
const (
	LocationBody    = "body"
	LocationParams  = "params"
	LocationQuery   = "query"
	LocationHeaders = "headers"
)

// Fixed strings of the error contract. Clients match on these literally,
// so they are exported and never localized.
const (
	ResponseType          = "Validation Error!"
	ResponseStatus        = "error"
	MsgInvalidRequestType = "Invalid request type!"
)

// FieldError describes a single validation failure.
type FieldError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field,omitempty"`

	// Location indicates where the field is: body, params, query, headers
	Location string `json:"location,omitempty"`

	// Code is a machine-readable error code
	Code string `json:"code,omitempty"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Received is the actual value that was received
	Received any `json:"received,omitempty"`

	// Expected describes what was expected
	Expected string `json:"expected,omitempty"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Field != "" && e.Location != "" {
		return fmt.Sprintf("%s.%s: %s", e.Location, e.Field, e.Message)
	}
	return e.Message
}

// ErrorResponse is the wire shape written for every validation failure.
// Message carries the first failing entry's message; Details carries the
// full ordered sequence. For configuration errors (unrecognized target)
// Details is absent entirely.
type ErrorResponse struct {
	Type    string        `json:"type"`
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []*FieldError `json:"details,omitempty"`
}

// NewErrorResponse builds the failure response for a non-empty error list.
func NewErrorResponse(errs []*FieldError) *ErrorResponse {
	resp := &ErrorResponse{
		Type:    ResponseType,
		Status:  ResponseStatus,
		Message: MsgInvalidRequestType,
		Details: errs,
	}
	if len(errs) > 0 {
		resp.Message = errs[0].Message
	}
	return resp
}

// NewInvalidTargetResponse builds the fixed response for an unrecognized
// validation target or Multi Schema key. It never carries details.
func NewInvalidTargetResponse() *ErrorResponse {
	return &ErrorResponse{
		Type:    ResponseType,
		Status:  ResponseStatus,
		Message: MsgInvalidRequestType,
	}
}

// Write writes the response as JSON with status 422.
func (e *ErrorResponse) Write(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnprocessableEntity, e)
}

// Error implements the error interface
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewRequiredError creates an error for a missing required field
func NewRequiredError(field, location string) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeRequired,
		Message:  fmt.Sprintf("%s is required", field),
		Expected: "non-null value",
	}
}

// NewTypeError creates an error for a type mismatch
func NewTypeError(field, location, expected string, received any) *FieldError {
	return &FieldError{
		Field:    field,
		Location: location,
		Code:     ErrCodeType,
		Message:  fmt.Sprintf("%s must be a valid %s", field, expected),
		Received: received,
		Expected: expected,
	}
}

// NewInvalidJSONError creates an error for a malformed request body
func NewInvalidJSONError(message string) *FieldError {
	return &FieldError{
		Location: LocationBody,
		Code:     ErrCodeInvalidJSON,
		Message:  fmt.Sprintf("invalid JSON: %s", message),
	}
}
