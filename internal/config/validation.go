package config

import (
	"fmt"
	"net/url"
	"strings"

	"qemcp/internal/template"
	"qemcp/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks the configuration needed to serve requests. All problems
// are collected into a ValidationErrors value.
func (c Config) Validate() error {
	var errs ValidationErrors

	add := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		}
	}

	add(ValidateRequired("ado.organizationUrl", c.ADO.OrganizationURL))
	if c.ADO.OrganizationURL != "" {
		u, err := url.Parse(c.ADO.OrganizationURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("ado.organizationUrl", "must be an absolute http(s) URL", c.ADO.OrganizationURL)
		}
	}
	add(ValidateRequired("ado.project", c.ADO.Project))
	add(ValidateOneOf("ado.auth.type", c.ADO.Auth.Type, []string{AuthTypePAT, AuthTypeBearer}))
	if c.ADO.Timeout < 0 {
		errs.Add("ado.timeout", "must not be negative", c.ADO.Timeout)
	}

	add(ValidateOneOf("server.transport", c.Server.Transport,
		[]string{MCPTransportStreamableHTTP, MCPTransportSSE, MCPTransportStdio}))
	if c.Server.Transport != MCPTransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs.Add("server.port", "must be between 1 and 65535", c.Server.Port)
	}

	if c.Reconcile.Parallelism < 1 {
		errs.Add("reconcile.parallelism", "must be at least 1", c.Reconcile.Parallelism)
	}
	for _, name := range []struct{ field, text string }{
		{"reconcile.suiteNames.feature", c.Reconcile.SuiteNames.Feature},
		{"reconcile.suiteNames.requirement", c.Reconcile.SuiteNames.Requirement},
	} {
		if name.text == "" {
			continue
		}
		if _, err := template.Parse(name.field, name.text); err != nil {
			errs.Add(name.field, err.Error(), name.text)
		}
	}

	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs.Add("logging.level", "must be one of: debug, info, warn, error", c.Logging.Level)
	}
	add(ValidateOneOf("logging.format", c.Logging.Format, []string{string(logging.FormatText), string(logging.FormatJSON)}))

	if errs.HasErrors() {
		return errs
	}
	return nil
}
