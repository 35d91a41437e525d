package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/model"
)

func newTestManager(adminPassword string, ttl time.Duration, now func() time.Time) *SessionManager {
	codec := NewTokenCodec("test-secret", ttl)
	if now != nil {
		codec.WithClock(now)
	}
	return NewSessionManager(codec, adminPassword, "lane_admin_token", ttl, false, zerolog.Nop())
}

// requestWithCookies copies the Set-Cookie headers of a recorded response
// onto a fresh request, simulating the client echoing them back.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func TestSessionManager_LoginThenAuthorized(t *testing.T) {
	sm := newTestManager("hunter2", time.Hour, nil)

	rec := httptest.NewRecorder()
	if err := sm.Login(rec, "hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "" || !cookies[0].HttpOnly {
		t.Fatalf("Login: expected one HttpOnly session cookie, got %+v", cookies)
	}

	if !sm.IsAuthorized(requestWithCookies(rec)) {
		t.Fatalf("IsAuthorized after login: want true")
	}
}

func TestSessionManager_LoginRejectsBadSecret(t *testing.T) {
	sm := newTestManager("hunter2", time.Hour, nil)

	for _, supplied := range []string{"", "wrong", "hunter"} {
		rec := httptest.NewRecorder()
		if err := sm.Login(rec, supplied); !errors.Is(err, model.ErrUnauthorized) {
			t.Fatalf("Login(%q): want ErrUnauthorized, got %v", supplied, err)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("Login(%q): cookie set on failed login", supplied)
		}
	}
}

func TestSessionManager_LoginMisconfigured(t *testing.T) {
	sm := newTestManager("", time.Hour, nil)
	rec := httptest.NewRecorder()
	if err := sm.Login(rec, "anything"); !errors.Is(err, model.ErrMisconfigured) {
		t.Fatalf("Login without configured secret: want ErrMisconfigured, got %v", err)
	}
}

func TestSessionManager_TokenExpiry(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := t0
	sm := newTestManager("hunter2", time.Hour, func() time.Time { return now })

	rec := httptest.NewRecorder()
	if err := sm.Login(rec, "hunter2"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	req := requestWithCookies(rec)

	if !sm.IsAuthorized(req) {
		t.Fatalf("IsAuthorized before expiry: want true")
	}

	now = t0.Add(2 * time.Hour)
	if sm.IsAuthorized(req) {
		t.Fatalf("IsAuthorized after expiry: want false")
	}
}

func TestSessionManager_Logout(t *testing.T) {
	sm := newTestManager("hunter2", time.Hour, nil)
	rec := httptest.NewRecorder()
	sm.Logout(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("Logout: expected expiring empty cookie, got %+v", cookies)
	}
	// Logging out again is harmless.
	sm.Logout(httptest.NewRecorder())
}

func TestSessionManager_IsAuthorizedTotal(t *testing.T) {
	sm := newTestManager("hunter2", time.Hour, nil)

	// No cookie
	if sm.IsAuthorized(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatalf("IsAuthorized without cookie: want false")
	}

	// Garbage cookie must map to false, never panic.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lane_admin_token", Value: "garbage.token.value"})
	if sm.IsAuthorized(req) {
		t.Fatalf("IsAuthorized with garbage cookie: want false")
	}
}
