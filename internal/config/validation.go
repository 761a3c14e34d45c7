package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rhymu8354/Lurker/internal/transport"
	"github.com/rhymu8354/Lurker/pkg/logging"
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
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
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

// ValidatePositiveDuration checks that a duration is greater than zero
func ValidatePositiveDuration(field string, value time.Duration) error {
	if value <= 0 {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be a positive duration",
		}
	}
	return nil
}

// ValidateRange checks that an integer lies within [min, max]
func ValidateRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must be between %d and %d", lo, hi),
		}
	}
	return nil
}

// Validate checks the whole configuration and reports every problem found.
func (c LurkerConfig) Validate() error {
	var errs ValidationErrors
	collect := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs.Add(ve.Field, ve.Message, ve.Value)
		}
	}

	collect(ValidateRequired("session.farewell", c.Session.Farewell, "a session"))
	collect(ValidatePositiveDuration("session.workerPollInterval", c.Session.WorkerPollInterval))
	collect(ValidatePositiveDuration("session.logOutPollInterval", c.Session.LogOutPollInterval))
	collect(ValidatePositiveDuration("session.shutdownTimeout", c.Session.ShutdownTimeout))
	collect(ValidateOneOf("transport.kind", c.Transport.Kind,
		[]string{string(transport.KindWebSocket), string(transport.KindTLS)}))
	collect(ValidateRange("logging.verbosity", c.Logging.Verbosity,
		int(logging.LevelError), int(logging.LevelDebug)))
	collect(ValidateOneOf("logging.format", c.Logging.Format,
		[]string{string(logging.FormatText), string(logging.FormatJSON)}))

	if errs.HasErrors() {
		return errs
	}
	return nil
}
