package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/store"
)

func strptr(s string) *string { return &s }

func img(path string, order int) *model.Image {
	return &model.Image{
		BlobURL:  "https://blobs.example.test/" + path,
		BlobPath: path,
		Order:    order,
	}
}

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Lanes
	lane, err := s.Lanes().Create(ctx, &model.Lane{Title: "summer", Description: strptr("beach trips"), IsPublic: true})
	if err != nil {
		t.Fatalf("CreateLane: %v", err)
	}
	if lane.LaneID == "" {
		t.Fatalf("CreateLane: empty lane id")
	}
	if got, err := s.Lanes().Get(ctx, lane.LaneID, false); err != nil || got.Title != "summer" {
		t.Fatalf("GetLane: got=%+v err=%v", got, err)
	}

	private, err := s.Lanes().Create(ctx, &model.Lane{Title: "drafts", IsPublic: false})
	if err != nil {
		t.Fatalf("CreateLane private: %v", err)
	}

	// Visibility filter: a private lane is not found for anonymous reads,
	// with the same error as a truly absent id.
	if _, err := s.Lanes().Get(ctx, private.LaneID, false); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetLane private anonymous: want ErrNotFound, got %v", err)
	}
	if _, err := s.Lanes().Get(ctx, "no-such-lane", false); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetLane absent: want ErrNotFound, got %v", err)
	}
	if got, err := s.Lanes().Get(ctx, private.LaneID, true); err != nil || got.Title != "drafts" {
		t.Fatalf("GetLane private admin: got=%+v err=%v", got, err)
	}

	if lst, err := s.Lanes().List(ctx, false); err != nil || len(lst) != 1 {
		t.Fatalf("ListLanes anonymous: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Lanes().List(ctx, true); err != nil || len(lst) != 2 {
		t.Fatalf("ListLanes admin: n=%d err=%v", len(lst), err)
	}

	// Memories: created atomically with their images.
	m1, err := s.Memories().Create(ctx, &model.Memory{
		LaneID:    lane.LaneID,
		Title:     "first swim",
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}, []*model.Image{img("memories/i1.jpg", 0), img("memories/i2.jpg", 1)})
	if err != nil {
		t.Fatalf("CreateMemory m1: %v", err)
	}
	if len(m1.Images) != 2 {
		t.Fatalf("CreateMemory m1: want 2 images, got %d", len(m1.Images))
	}
	m2, err := s.Memories().Create(ctx, &model.Memory{
		LaneID:    lane.LaneID,
		Title:     "bonfire",
		Timestamp: time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC),
	}, []*model.Image{img("memories/i3.jpg", 0)})
	if err != nil {
		t.Fatalf("CreateMemory m2: %v", err)
	}

	// Creating a memory under a missing lane writes nothing.
	if _, err := s.Memories().Create(ctx, &model.Memory{LaneID: "no-such-lane", Title: "x", Timestamp: time.Now()}, []*model.Image{img("memories/x.jpg", 0)}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("CreateMemory missing lane: want ErrNotFound, got %v", err)
	}

	// Lane detail ordering: memories newest-first, images by order asc.
	detail, err := s.Lanes().GetDetail(ctx, lane.LaneID, false)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Memories) != 2 {
		t.Fatalf("GetDetail: want 2 memories, got %d", len(detail.Memories))
	}
	if detail.Memories[0].Title != "bonfire" || detail.Memories[1].Title != "first swim" {
		t.Fatalf("GetDetail: memories not newest-first: %s, %s", detail.Memories[0].Title, detail.Memories[1].Title)
	}
	gotImgs := detail.Memories[1].Images
	if len(gotImgs) != 2 || gotImgs[0].Order > gotImgs[1].Order {
		t.Fatalf("GetDetail: images not ordered ascending: %+v", gotImgs)
	}

	// Scalar update
	newTitle := "first swim of the year"
	upd, err := s.Memories().Update(ctx, m1.MemoryID, model.MemoryUpdate{Title: &newTitle})
	if err != nil || upd.Title != newTitle {
		t.Fatalf("UpdateMemory: got=%+v err=%v", upd, err)
	}
	if upd.Timestamp.IsZero() {
		t.Fatalf("UpdateMemory: timestamp lost on partial update")
	}
	if _, err := s.Memories().Update(ctx, "no-such-memory", model.MemoryUpdate{Title: &newTitle}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateMemory absent: want ErrNotFound, got %v", err)
	}

	// Single image add + delete
	extra, err := s.Images().Create(ctx, &model.Image{MemoryID: m2.MemoryID, BlobURL: "https://blobs.example.test/memories/i4.jpg", BlobPath: "memories/i4.jpg", Order: 5})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	path, err := s.Images().Delete(ctx, extra.ImageID)
	if err != nil || path != "memories/i4.jpg" {
		t.Fatalf("DeleteImage: path=%q err=%v", path, err)
	}
	if _, err := s.Images().Delete(ctx, extra.ImageID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteImage twice: want ErrNotFound, got %v", err)
	}

	// Memory cascade returns its image paths.
	paths, err := s.Memories().Delete(ctx, m2.MemoryID)
	if err != nil {
		t.Fatalf("DeleteMemory: %v", err)
	}
	if len(paths) != 1 || paths[0] != "memories/i3.jpg" {
		t.Fatalf("DeleteMemory: want [memories/i3.jpg], got %v", paths)
	}
	if _, err := s.Memories().Get(ctx, m2.MemoryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteMemory: memory still resolvable")
	}

	// Lane cascade returns the full closure's paths; rows all vanish.
	paths, err = s.Lanes().Delete(ctx, lane.LaneID)
	if err != nil {
		t.Fatalf("DeleteLane: %v", err)
	}
	want := map[string]bool{"memories/i1.jpg": true, "memories/i2.jpg": true}
	if len(paths) != len(want) {
		t.Fatalf("DeleteLane: want %d paths, got %v", len(want), paths)
	}
	for _, p := range paths {
		if !want[p] {
			t.Fatalf("DeleteLane: unexpected path %q", p)
		}
	}
	if _, err := s.Lanes().Get(ctx, lane.LaneID, true); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteLane: lane still resolvable")
	}
	if _, err := s.Memories().Get(ctx, m1.MemoryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteLane: child memory still resolvable")
	}

	// Deleting a nonexistent lane is NotFound with zero mutations.
	if _, err := s.Lanes().Delete(ctx, "no-such-lane"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteLane absent: want ErrNotFound, got %v", err)
	}

	// Larger closure: lane with two memories, three images total.
	big, err := s.Lanes().Create(ctx, &model.Lane{Title: "big", IsPublic: true})
	if err != nil {
		t.Fatalf("CreateLane big: %v", err)
	}
	for i := 0; i < 2; i++ {
		n := i + 1
		imgs := []*model.Image{img(fmt.Sprintf("memories/b%d-0.jpg", n), 0)}
		if n == 1 {
			imgs = append(imgs, img("memories/b1-1.jpg", 1))
		}
		if _, err := s.Memories().Create(ctx, &model.Memory{
			LaneID:    big.LaneID,
			Title:     fmt.Sprintf("m%d", n),
			Timestamp: time.Date(2024, time.Month(n), 1, 0, 0, 0, 0, time.UTC),
		}, imgs); err != nil {
			t.Fatalf("CreateMemory big m%d: %v", n, err)
		}
	}
	paths, err = s.Lanes().Delete(ctx, big.LaneID)
	if err != nil || len(paths) != 3 {
		t.Fatalf("DeleteLane big: paths=%v err=%v", paths, err)
	}
}
