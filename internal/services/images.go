package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/blob"
	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/store"
)

// ImageService owns single-image registration and removal.
type ImageService struct {
	store store.Store
	blobs blob.Store
	log   zerolog.Logger
}

func NewImageService(s store.Store, b blob.Store, log zerolog.Logger) *ImageService {
	return &ImageService{store: s, blobs: b, log: log}
}

// AddImage registers an already-uploaded blob against an existing memory.
// The upload happened fully before this call, so a failed insert leaves an
// unreferenced blob behind; that orphan is the accepted gap of the
// two-store design.
func (s *ImageService) AddImage(ctx context.Context, memoryID string, in NewImage) (*model.Image, error) {
	return s.store.Images().Create(ctx, &model.Image{
		MemoryID: memoryID,
		BlobURL:  in.BlobURL,
		BlobPath: in.BlobPath,
		Order:    in.Order,
	})
}

// DeleteImage removes exactly one row, then best-effort deletes its blob.
// Unlike the whole-entity cascades, a blob failure here is logged and the
// call still reports success: the row removal is the definitive state
// change and a single orphaned blob is considered low-impact.
func (s *ImageService) DeleteImage(ctx context.Context, imageID string) error {
	path, err := s.store.Images().Delete(ctx, imageID)
	if err != nil {
		return err
	}
	if _, err := s.blobs.Remove(ctx, path); err != nil {
		s.log.Error().Err(err).Str("imageId", imageID).Str("blobPath", path).Msg("image blob cleanup failed")
	}
	return nil
}
