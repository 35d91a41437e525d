package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memorylane/lane-server/internal/api/respond"
	"github.com/memorylane/lane-server/internal/api/validate"
	"github.com/memorylane/lane-server/internal/auth"
	"github.com/memorylane/lane-server/internal/services"
)

// LaneHandler provides HTTP transport for lane operations.
type LaneHandler struct {
	lanes    *services.LaneService
	sessions *auth.SessionManager
}

func NewLaneHandler(svc *services.LaneService, sm *auth.SessionManager) *LaneHandler {
	return &LaneHandler{lanes: svc, sessions: sm}
}

// CreateLane POST /api/lanes (admin)
func (h *LaneHandler) CreateLane(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
		IsPublic    bool    `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	v := validate.New()
	v.Title("title", req.Title)
	v.Description("description", req.Description)
	if err := v.Err(); err != nil {
		writeServiceError(w, err)
		return
	}

	lane, err := h.lanes.CreateLane(r.Context(), services.CreateLaneRequest{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, lane)
}

// ListLanes GET /api/lanes — anonymous callers only see public lanes.
func (h *LaneHandler) ListLanes(w http.ResponseWriter, r *http.Request) {
	lanes, err := h.lanes.ListLanes(r.Context(), h.sessions.IsAuthorized(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"lanes": lanes, "count": len(lanes)})
}

// GetLane GET /api/lanes/{laneId} — a private lane requested anonymously
// is reported as not found, never as forbidden.
func (h *LaneHandler) GetLane(w http.ResponseWriter, r *http.Request) {
	laneID := mux.Vars(r)["laneId"]
	detail, err := h.lanes.GetLane(r.Context(), laneID, h.sessions.IsAuthorized(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, detail)
}

// DeleteLane DELETE /api/lanes/{laneId} (admin) — full cascade.
func (h *LaneHandler) DeleteLane(w http.ResponseWriter, r *http.Request) {
	laneID := mux.Vars(r)["laneId"]
	if err := h.lanes.DeleteLane(r.Context(), laneID); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Lane deleted"})
}
