// Package blob abstracts the external object store holding image bytes.
// The store is an independent failure domain from the relational store:
// callers must never assume a shared transaction across the two.
package blob

import (
	"context"
	"time"
)

// Store is the minimal surface the service needs from object storage.
type Store interface {
	// Remove deletes the objects at the given paths, one call per path.
	// Every path is attempted even if an earlier one fails; the paths that
	// failed are returned alongside the joined error so each orphaned
	// object can be retried by an operator.
	Remove(ctx context.Context, paths ...string) (failed []string, err error)

	// PresignedPut returns a short-lived URL a client can PUT object bytes
	// to directly, bypassing this service.
	PresignedPut(ctx context.Context, objectPath string, expiry time.Duration) (string, error)

	// PublicURL derives the public-read reference for a stored object.
	PublicURL(objectPath string) string

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
