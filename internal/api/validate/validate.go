// Package validate checks request bodies against the fixed entry-point
// schemas and accumulates violations into a field-keyed report.
package validate

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/memorylane/lane-server/internal/services"
)

const maxTitleLen = 200
const maxDescriptionLen = 2000

// Errors accumulates field-level violations. Zero value is not usable;
// call New.
type Errors struct {
	fields map[string]string
}

func New() *Errors {
	return &Errors{fields: map[string]string{}}
}

// add records the first violation per field.
func (e *Errors) add(field, message string) {
	if _, seen := e.fields[field]; !seen {
		e.fields[field] = message
	}
}

// Err returns nil when no violations were recorded, otherwise the
// field-keyed ValidationError.
func (e *Errors) Err() error {
	if len(e.fields) == 0 {
		return nil
	}
	return services.ValidationError{Fields: e.fields}
}

// Require records a violation when v is empty.
func (e *Errors) Require(field, v string) {
	if v == "" {
		e.add(field, field+" is required")
	}
}

// Title checks a required title field with a length cap.
func (e *Errors) Title(field, v string) {
	if v == "" {
		e.add(field, "title is required")
		return
	}
	if len(v) > maxTitleLen {
		e.add(field, fmt.Sprintf("title exceeds %d characters", maxTitleLen))
	}
}

// Description checks an optional description field with a length cap.
func (e *Errors) Description(field string, v *string) {
	if v != nil && len(*v) > maxDescriptionLen {
		e.add(field, fmt.Sprintf("description exceeds %d characters", maxDescriptionLen))
	}
}

// Timestamp parses a required ISO-8601 timestamp. Returns the zero time
// when invalid (the recorded violation makes the value unused).
func (e *Errors) Timestamp(field, v string) time.Time {
	if v == "" {
		e.add(field, "timestamp is required")
		return time.Time{}
	}
	if !strfmt.IsDateTime(v) {
		e.add(field, "must be an ISO-8601 timestamp")
		return time.Time{}
	}
	dt, err := strfmt.ParseDateTime(v)
	if err != nil {
		e.add(field, "must be an ISO-8601 timestamp")
		return time.Time{}
	}
	return time.Time(dt)
}

// OptionalTimestamp parses an optional ISO-8601 timestamp.
func (e *Errors) OptionalTimestamp(field string, v *string) *time.Time {
	if v == nil {
		return nil
	}
	t := e.Timestamp(field, *v)
	if t.IsZero() {
		return nil
	}
	return &t
}

// URL checks a required absolute http(s) URL.
func (e *Errors) URL(field, v string) {
	if v == "" {
		e.add(field, field+" is required")
		return
	}
	u, err := url.Parse(v)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		e.add(field, "must be an absolute http(s) URL")
	}
}

// NonNegative checks an integer order field.
func (e *Errors) NonNegative(field string, v int) {
	if v < 0 {
		e.add(field, "must be a non-negative integer")
	}
}
