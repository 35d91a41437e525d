package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memorylane/lane-server/internal/api/respond"
	"github.com/memorylane/lane-server/internal/api/validate"
	"github.com/memorylane/lane-server/internal/services"
)

// ImageHandler provides HTTP transport for single-image operations.
type ImageHandler struct {
	images *services.ImageService
}

func NewImageHandler(svc *services.ImageService) *ImageHandler {
	return &ImageHandler{images: svc}
}

// AddImage POST /api/memories/{memoryId}/images (admin) — registers an
// already-uploaded blob against an existing memory.
func (h *ImageHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	memoryID := mux.Vars(r)["memoryId"]

	var req imagePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	v := validate.New()
	v.URL("blobUrl", req.BlobURL)
	v.Require("blobPath", req.BlobPath)
	v.NonNegative("order", req.Order)
	if err := v.Err(); err != nil {
		writeServiceError(w, err)
		return
	}

	img, err := h.images.AddImage(r.Context(), memoryID, services.NewImage{
		BlobURL:  req.BlobURL,
		BlobPath: req.BlobPath,
		Order:    req.Order,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, img)
}

// DeleteImage DELETE /api/images/{imageId} (admin) — removes one row;
// blob cleanup is best-effort and never fails the request.
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["imageId"]
	if err := h.images.DeleteImage(r.Context(), imageID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
