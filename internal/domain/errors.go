package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent per-document failures. The batch runner matches
// against these to classify why a document was skipped.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingField indicates a required key was absent under every known alias.
	ErrMissingField = errors.New("missing field")

	// ErrValidation indicates the document violated the quote schema.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedJSON indicates an input file could not be parsed as JSON.
	ErrMalformedJSON = errors.New("malformed JSON")
)

// MissingFieldError reports required fields that were absent under all of
// their known aliases. The validator aggregates every miss in one pass, so
// Fields may name more than one field.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// ValidationError aggregates all schema violations found in one document.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema violation(s): %s", strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
