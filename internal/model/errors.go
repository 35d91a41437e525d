package model

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to a live row,
	// or when a private entity is requested anonymously. The two cases are
	// deliberately indistinguishable so existence is never leaked.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for a missing, invalid or expired
	// credential, or a bad login secret.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMisconfigured is returned when required process-wide configuration
	// is absent. Startup validation treats this class as fatal.
	ErrMisconfigured = errors.New("server misconfigured")
)
