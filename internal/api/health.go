package api

import (
	"context"
	"net/http"
	"time"

	"github.com/memorylane/lane-server/internal/api/respond"
)

// Pinger is anything that can answer a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports reachability of the two backing stores.
type HealthHandler struct {
	store Pinger
	blobs Pinger
}

func NewHealthHandler(store, blobs Pinger) *HealthHandler {
	return &HealthHandler{store: store, blobs: blobs}
}

// CheckHealth GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{"store": "ok", "blobStore": "ok"}
	healthy := true
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			status["store"] = err.Error()
			healthy = false
		}
	}
	if h.blobs != nil {
		if err := h.blobs.Ping(ctx); err != nil {
			status["blobStore"] = err.Error()
			healthy = false
		}
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, map[string]interface{}{"healthy": healthy, "components": status})
}
