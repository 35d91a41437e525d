package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/model"
)

// SessionManager gates every mutating operation. It issues tokens at
// login, binds them to the caller through an HttpOnly cookie, and answers
// "is this request authorized" as a total yes/no function.
type SessionManager struct {
	codec         *TokenCodec
	adminPassword string
	cookieName    string
	cookieMaxAge  time.Duration
	secureCookie  bool
	log           zerolog.Logger
}

// NewSessionManager wires the session manager over a token codec and the
// configured admin secret and cookie parameters.
func NewSessionManager(codec *TokenCodec, adminPassword, cookieName string, ttl time.Duration, secureCookie bool, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		codec:         codec,
		adminPassword: adminPassword,
		cookieName:    cookieName,
		cookieMaxAge:  ttl,
		secureCookie:  secureCookie,
		log:           log,
	}
}

// Login compares the supplied secret against the configured admin secret
// and, on match, issues a fresh token and sets the session cookie.
// A missing configured secret yields ErrMisconfigured; any mismatch yields
// ErrUnauthorized. The error never reveals which part failed beyond that
// split.
func (s *SessionManager) Login(w http.ResponseWriter, suppliedSecret string) error {
	if s.adminPassword == "" {
		return model.ErrMisconfigured
	}
	if suppliedSecret == "" {
		return model.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(suppliedSecret), []byte(s.adminPassword)) != 1 {
		return model.ErrUnauthorized
	}

	token, err := s.codec.Issue()
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout expires the session cookie unconditionally. Idempotent.
func (s *SessionManager) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsAuthorized reports whether the request carries a valid admin
// credential. Every failure mode (absent cookie, malformed token, bad
// signature, expiry) maps to false; nothing is propagated or thrown.
// The decision is evaluated fresh against the current time on every call.
func (s *SessionManager) IsAuthorized(r *http.Request) bool {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	if err := s.codec.Verify(cookie.Value); err != nil {
		s.log.Debug().Err(err).Msg("admin token rejected")
		return false
	}
	return true
}
