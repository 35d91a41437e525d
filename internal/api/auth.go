package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/memorylane/lane-server/internal/api/respond"
	"github.com/memorylane/lane-server/internal/auth"
	"github.com/memorylane/lane-server/internal/model"
)

// AuthHandler provides HTTP transport for the admin session.
type AuthHandler struct {
	sessions *auth.SessionManager
}

func NewAuthHandler(sm *auth.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sm}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.sessions.Login(w, req.Password); err != nil {
		switch {
		case errors.Is(err, model.ErrMisconfigured):
			respond.WriteInternalError(w, "admin secret is not configured")
		case errors.Is(err, model.ErrUnauthorized):
			respond.WriteUnauthorized(w)
		default:
			respond.WriteInternalError(w, err.Error())
		}
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Login successful"})
}

// Logout POST /api/auth/logout — clears the credential, always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Logout(w)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Logout successful"})
}
