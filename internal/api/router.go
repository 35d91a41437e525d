package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/api/recovery"
	"github.com/memorylane/lane-server/internal/auth"
	"github.com/memorylane/lane-server/internal/services"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Log      zerolog.Logger
	Sessions *auth.SessionManager
	Lanes    *services.LaneService
	Memories *services.MemoryService
	Images   *services.ImageService
	Uploads  *services.UploadService

	StoreHealth Pinger
	BlobHealth  Pinger
}

// NewRouter wires HTTP routes to handlers. Every mutating route is behind
// the admin session check; read routes apply the visibility filter inside
// their handlers instead.
func NewRouter(d RouterDeps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(d.Log))

	admin := func(h http.HandlerFunc) http.Handler {
		return d.Sessions.RequireAdmin(h)
	}

	// Session
	authHandler := NewAuthHandler(d.Sessions)
	root.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	root.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")

	// Lanes
	lane := NewLaneHandler(d.Lanes, d.Sessions)
	root.HandleFunc("/api/lanes", lane.ListLanes).Methods("GET")
	root.Handle("/api/lanes", admin(lane.CreateLane)).Methods("POST")
	root.HandleFunc("/api/lanes/{laneId}", lane.GetLane).Methods("GET")
	root.Handle("/api/lanes/{laneId}", admin(lane.DeleteLane)).Methods("DELETE")

	// Memories
	memory := NewMemoryHandler(d.Memories)
	root.Handle("/api/lanes/{laneId}/memories", admin(memory.CreateMemory)).Methods("POST")
	root.Handle("/api/memories/{memoryId}", admin(memory.UpdateMemory)).Methods("PATCH")
	root.Handle("/api/memories/{memoryId}", admin(memory.DeleteMemory)).Methods("DELETE")

	// Images
	image := NewImageHandler(d.Images)
	root.Handle("/api/memories/{memoryId}/images", admin(image.AddImage)).Methods("POST")
	root.Handle("/api/images/{imageId}", admin(image.DeleteImage)).Methods("DELETE")

	// Uploads
	upload := NewUploadHandler(d.Uploads)
	root.Handle("/api/uploads", admin(upload.NewUpload)).Methods("POST")

	// Health
	health := NewHealthHandler(d.StoreHealth, d.BlobHealth)
	root.HandleFunc("/api/health", health.CheckHealth).Methods("GET")

	return root
}
