package medcsv

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed CSV structure. It is surfaced to the
// user as a corrective message and nothing is persisted; it never aborts the
// process.
type ValidationError struct {
	// Code identifies the error category.
	Code ValidationErrorCode

	// Message is a human-readable description naming what the input must
	// look like.
	Message string
}

// ValidationErrorCode categorizes CSV validation errors.
type ValidationErrorCode string

const (
	// ErrCodeEmptyInput indicates the input contained no non-blank lines.
	ErrCodeEmptyInput ValidationErrorCode = "EMPTY_INPUT"

	// ErrCodeBadHeader indicates the header row did not match the required
	// column list.
	ErrCodeBadHeader ValidationErrorCode = "BAD_HEADER"
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError returns true if the error is a CSV validation error.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
