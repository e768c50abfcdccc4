package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ServiceError is the single typed error surfaced by the test plan service.
// It carries the upstream HTTP status code of the remote work-tracking system
// (500 when none is known) and a message prefixed with the failing operation,
// e.g. "Failed to create test suite: ...".
type ServiceError struct {
	// StatusCode is the upstream HTTP status, or 500.
	StatusCode int

	// Op is the operation that failed ("create test suite").
	Op string

	// Message is the human readable error text returned by Error().
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError with the given status and message.
// A zero status is normalized to 500.
func NewServiceError(statusCode int, message string) *ServiceError {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &ServiceError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// WrapServiceError wraps err as a ServiceError for the given operation.
// The message becomes "Failed to <op>: <err>". When err already is or wraps
// a ServiceError, its status code is kept; otherwise 500 is used.
//
// Returns nil when err is nil.
//
// Example:
//
//	return nil, api.WrapServiceError("get test plan", err)
func WrapServiceError(op string, err error) *ServiceError {
	if err == nil {
		return nil
	}
	return &ServiceError{
		StatusCode: StatusCode(err),
		Op:         op,
		Message:    fmt.Sprintf("Failed to %s: %s", op, err.Error()),
		Err:        err,
	}
}

// StatusCode extracts the HTTP status carried by err. ServiceError supplies
// its own status, NotFoundError maps to 404, ValidationError to 400, and
// anything else to 500.
func StatusCode(err error) int {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode != 0 {
		return svcErr.StatusCode
	}
	if IsNotFound(err) {
		return http.StatusNotFound
	}
	if IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NotFoundError represents a resource not found error with contextual information.
type NotFoundError struct {
	// ResourceType categorizes the missing resource
	// (e.g., "test plan", "work item", "test suite")
	ResourceType string

	// ResourceName is the identifier of the missing resource
	ResourceName string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError, or a ServiceError with
// status 404, using error unwrapping.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return true
	}
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// ValidationErrors collects several validation failures.
type ValidationErrors []*ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Unwrap exposes the individual errors to errors.As / errors.Is.
func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, err := range ve {
		errs[i] = err
	}
	return errs
}

// Add appends a validation error.
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, NewValidationError(field, message))
}

// OrNil returns nil when no errors were collected.
func (ve ValidationErrors) OrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}
