package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers render it as a 404 with an explanatory message.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or conflicting field on input.
// Handlers render it as a 400 with field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
