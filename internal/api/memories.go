package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memorylane/lane-server/internal/api/respond"
	"github.com/memorylane/lane-server/internal/api/validate"
	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/services"
)

// MemoryHandler provides HTTP transport for memory operations.
type MemoryHandler struct {
	memories *services.MemoryService
}

func NewMemoryHandler(svc *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{memories: svc}
}

type imagePayload struct {
	BlobURL  string `json:"blobUrl"`
	BlobPath string `json:"blobPath"`
	Order    int    `json:"order"`
}

// CreateMemory POST /api/lanes/{laneId}/memories (admin) — the memory row
// and all of its initial image rows commit in one transaction.
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	laneID := mux.Vars(r)["laneId"]

	var req struct {
		Title       string         `json:"title"`
		Description *string        `json:"description,omitempty"`
		Timestamp   string         `json:"timestamp"`
		Images      []imagePayload `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	v := validate.New()
	v.Title("title", req.Title)
	v.Description("description", req.Description)
	ts := v.Timestamp("timestamp", req.Timestamp)
	if len(req.Images) == 0 {
		// checked here as well as in the service so no row is ever written
		v.Require("images", "")
	}
	for _, img := range req.Images {
		v.URL("images.blobUrl", img.BlobURL)
		v.Require("images.blobPath", img.BlobPath)
		v.NonNegative("images.order", img.Order)
	}
	if err := v.Err(); err != nil {
		writeServiceError(w, err)
		return
	}

	images := make([]services.NewImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, services.NewImage{BlobURL: img.BlobURL, BlobPath: img.BlobPath, Order: img.Order})
	}
	mem, err := h.memories.CreateMemory(r.Context(), services.CreateMemoryRequest{
		LaneID:      laneID,
		Title:       req.Title,
		Description: req.Description,
		Timestamp:   ts,
		Images:      images,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, mem)
}

// UpdateMemory PATCH /api/memories/{memoryId} (admin) — scalar updates.
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	memoryID := mux.Vars(r)["memoryId"]

	var req struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
		Timestamp   *string `json:"timestamp,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	v := validate.New()
	if req.Title != nil {
		v.Title("title", *req.Title)
	}
	v.Description("description", req.Description)
	ts := v.OptionalTimestamp("timestamp", req.Timestamp)
	if err := v.Err(); err != nil {
		writeServiceError(w, err)
		return
	}

	mem, err := h.memories.UpdateMemory(r.Context(), memoryID, model.MemoryUpdate{
		Title:       req.Title,
		Description: req.Description,
		Timestamp:   ts,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, mem)
}

// DeleteMemory DELETE /api/memories/{memoryId} (admin) — cascade over the
// memory's images and blobs.
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	memoryID := mux.Vars(r)["memoryId"]
	if err := h.memories.DeleteMemory(r.Context(), memoryID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
