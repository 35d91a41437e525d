package auth

import "net/http"

// RequireAdmin wraps mutating routes. Unauthorized requests are rejected
// with 401 before any handler side effects run.
func (s *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.IsAuthorized(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized","code":401}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
