package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError is a field-keyed validation report. Handlers serialize
// it as a structured error body instead of a generic message.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Fields: map[string]string{field: message}}
}

// IsValidationError checks if an error is a ValidationError (including
// wrapped errors).
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// PartialCascadeError reports that the relational deletion committed but
// one or more blob deletions failed afterwards. The rows are gone for
// good; the listed paths are orphaned objects an operator can retry.
type PartialCascadeError struct {
	FailedPaths []string
	Err         error
}

func (e PartialCascadeError) Error() string {
	return fmt.Sprintf("rows deleted but %d blob deletion(s) failed: %v", len(e.FailedPaths), e.Err)
}

func (e PartialCascadeError) Unwrap() error { return e.Err }

// IsPartialCascadeError checks if an error is a PartialCascadeError.
func IsPartialCascadeError(err error) bool {
	var pe PartialCascadeError
	return errors.As(err, &pe)
}
