package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/blob"
	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/store"
)

// NewImage carries an already-uploaded blob reference for a new image row.
type NewImage struct {
	BlobURL  string
	BlobPath string
	Order    int
}

// CreateMemoryRequest carries a new memory and its initial images.
type CreateMemoryRequest struct {
	LaneID      string
	Title       string
	Description *string
	Timestamp   time.Time
	Images      []NewImage
}

// MemoryService owns memory creation, scalar updates and the memory-level
// cascade.
type MemoryService struct {
	store store.Store
	blobs blob.Store
	log   zerolog.Logger
}

func NewMemoryService(s store.Store, b blob.Store, log zerolog.Logger) *MemoryService {
	return &MemoryService{store: s, blobs: b, log: log}
}

// CreateMemory inserts the memory row and all of its initial image rows in
// one transaction. A memory must carry at least one image at creation
// time; the check runs before any row is written.
func (s *MemoryService) CreateMemory(ctx context.Context, req CreateMemoryRequest) (*model.MemoryWithImages, error) {
	if len(req.Images) == 0 {
		return nil, NewValidationError("images", "at least one image is required")
	}
	imgs := make([]*model.Image, 0, len(req.Images))
	for _, in := range req.Images {
		imgs = append(imgs, &model.Image{BlobURL: in.BlobURL, BlobPath: in.BlobPath, Order: in.Order})
	}
	return s.store.Memories().Create(ctx, &model.Memory{
		LaneID:      req.LaneID,
		Title:       req.Title,
		Description: req.Description,
		Timestamp:   req.Timestamp,
	}, imgs)
}

// UpdateMemory applies scalar field updates. No cascade concerns.
func (s *MemoryService) UpdateMemory(ctx context.Context, memoryID string, upd model.MemoryUpdate) (*model.Memory, error) {
	return s.store.Memories().Update(ctx, memoryID, upd)
}

// DeleteMemory removes the memory and its images in one transaction, then
// the corresponding blobs. Same failure policy as the lane cascade: a blob
// failure after commit surfaces as PartialCascadeError.
func (s *MemoryService) DeleteMemory(ctx context.Context, memoryID string) error {
	paths, err := s.store.Memories().Delete(ctx, memoryID)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	if failed, err := s.blobs.Remove(ctx, paths...); err != nil {
		s.log.Error().Err(err).Str("memoryId", memoryID).Strs("blobPaths", failed).Msg("memory cascade left orphaned blobs")
		return PartialCascadeError{FailedPaths: failed, Err: err}
	}
	return nil
}
