package model

import "time"

// Lane is a curated, ordered collection of memories and the root of one
// cascade tree.
type Lane struct {
	LaneID       string    `json:"laneId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	IsPublic     bool      `json:"isPublic"`
	CreationTime time.Time `json:"creationTime"`
}

// Memory is a dated entry belonging to exactly one lane.
type Memory struct {
	MemoryID    string    `json:"memoryId"`
	LaneID      string    `json:"laneId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Image is a database record referencing an externally stored blob by
// path/URL; the bytes themselves live in the blob store.
type Image struct {
	ImageID  string `json:"imageId"`
	MemoryID string `json:"memoryId"`
	BlobURL  string `json:"blobUrl"`
	BlobPath string `json:"blobPath"`
	Order    int    `json:"order"`
}

// MemoryWithImages is a memory together with its images ordered ascending
// by the explicit order field.
type MemoryWithImages struct {
	Memory
	Images []*Image `json:"images"`
}

// LaneDetail is a lane with its memories ordered newest-first, each
// carrying its images.
type LaneDetail struct {
	Lane
	Memories []*MemoryWithImages `json:"memories"`
}

// MemoryUpdate carries optional scalar field updates for a memory.
// Nil fields are left unchanged.
type MemoryUpdate struct {
	Title       *string
	Description *string
	Timestamp   *time.Time
}
