package store

import (
	"context"

	"github.com/memorylane/lane-server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Lanes() Lanes
	Memories() Memories
	Images() Images
}

// Lanes persists lane rows. Delete runs the full cascade (lane, memories,
// images) in a single transaction and returns the blob paths of every
// image removed, collected inside the same transaction, so the caller can
// delete the corresponding blob objects after commit.
type Lanes interface {
	Create(ctx context.Context, l *model.Lane) (*model.Lane, error)
	Get(ctx context.Context, laneID string, includePrivate bool) (*model.Lane, error)
	GetDetail(ctx context.Context, laneID string, includePrivate bool) (*model.LaneDetail, error)
	List(ctx context.Context, includePrivate bool) ([]*model.Lane, error)
	Delete(ctx context.Context, laneID string) ([]string, error)
}

// Memories persists memory rows. Create inserts the memory and all of its
// initial images in one transaction so a memory is never visible without
// them. Delete cascades to the memory's images and returns their blob
// paths, like Lanes.Delete.
type Memories interface {
	Create(ctx context.Context, m *model.Memory, images []*model.Image) (*model.MemoryWithImages, error)
	Get(ctx context.Context, memoryID string) (*model.Memory, error)
	Update(ctx context.Context, memoryID string, upd model.MemoryUpdate) (*model.Memory, error)
	Delete(ctx context.Context, memoryID string) ([]string, error)
}

// Images persists image rows. Delete removes exactly one row and returns
// its blob path.
type Images interface {
	Create(ctx context.Context, img *model.Image) (*model.Image, error)
	Get(ctx context.Context, imageID string) (*model.Image, error)
	Delete(ctx context.Context, imageID string) (string, error)
}
