package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/blob"
	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/store"
)

// CreateLaneRequest carries the fields for a new lane.
type CreateLaneRequest struct {
	Title       string
	Description *string
	IsPublic    bool
}

// LaneService owns lane reads and the lane cascade. Deleting a lane is the
// widest cascade in the system: every memory in the lane, every image row
// under those memories, and every corresponding blob object.
type LaneService struct {
	store store.Store
	blobs blob.Store
	log   zerolog.Logger
}

func NewLaneService(s store.Store, b blob.Store, log zerolog.Logger) *LaneService {
	return &LaneService{store: s, blobs: b, log: log}
}

func (s *LaneService) CreateLane(ctx context.Context, req CreateLaneRequest) (*model.Lane, error) {
	return s.store.Lanes().Create(ctx, &model.Lane{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
}

// ListLanes returns all lanes for an admin caller, public lanes otherwise.
func (s *LaneService) ListLanes(ctx context.Context, isAdmin bool) ([]*model.Lane, error) {
	return s.store.Lanes().List(ctx, isAdmin)
}

// GetLane resolves a lane with its memories and images. Anonymous callers
// only resolve public lanes; a private lane yields model.ErrNotFound so
// its existence is not leaked.
func (s *LaneService) GetLane(ctx context.Context, laneID string, isAdmin bool) (*model.LaneDetail, error) {
	return s.store.Lanes().GetDetail(ctx, laneID, isAdmin)
}

// DeleteLane removes the lane's full dependent closure. The relational
// half runs as one transaction inside the store; only after it commits are
// the blob objects removed. A blob failure at that point cannot roll the
// rows back, so it surfaces as PartialCascadeError rather than a total
// failure.
func (s *LaneService) DeleteLane(ctx context.Context, laneID string) error {
	paths, err := s.store.Lanes().Delete(ctx, laneID)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	if failed, err := s.blobs.Remove(ctx, paths...); err != nil {
		s.log.Error().Err(err).Str("laneId", laneID).Strs("blobPaths", failed).Msg("lane cascade left orphaned blobs")
		return PartialCascadeError{FailedPaths: failed, Err: err}
	}
	return nil
}
