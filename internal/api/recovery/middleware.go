// Package recovery converts handler panics into 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/api/respond"
)

// Middleware returns a mux-compatible middleware that recovers panics from
// downstream handlers, logs the stack against the given logger, and answers
// with the standard 500 body.
func Middleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					respond.WriteInternalError(w, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
