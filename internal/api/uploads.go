package api

import (
	"encoding/json"
	"net/http"

	"github.com/memorylane/lane-server/internal/api/respond"
	"github.com/memorylane/lane-server/internal/services"
)

// UploadHandler issues direct-upload grants for image blobs.
type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(svc *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: svc}
}

// NewUpload POST /api/uploads (admin) — returns a short-lived presigned
// PUT URL plus the {blobUrl, blobPath} pair to register afterwards.
func (h *UploadHandler) NewUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	grant, err := h.uploads.NewGrant(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, grant)
}
