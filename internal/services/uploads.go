package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorylane/lane-server/internal/blob"
)

// allowedImageTypes is the content-type allowlist for direct uploads.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadGrant is a short-lived, scope-restricted permission to upload one
// object directly to the blob store. The client PUTs the bytes to
// UploadURL, then registers {BlobURL, BlobPath} through the image entry
// points.
type UploadGrant struct {
	UploadURL string    `json:"uploadUrl"`
	BlobURL   string    `json:"blobUrl"`
	BlobPath  string    `json:"blobPath"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadService issues upload grants. It is a thin pass-through over the
// blob store, guarded by the same admin check as every other mutation.
type UploadService struct {
	blobs  blob.Store
	urlTTL time.Duration
}

func NewUploadService(b blob.Store, urlTTL time.Duration) *UploadService {
	return &UploadService{blobs: b, urlTTL: urlTTL}
}

// NewGrant validates the content type against the image allowlist and
// issues a presigned PUT URL for a randomized object path, so two uploads
// of the same filename never collide.
func (s *UploadService) NewGrant(ctx context.Context, filename, contentType string) (*UploadGrant, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, NewValidationError("contentType", fmt.Sprintf("unsupported content type %q", contentType))
	}

	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." {
		base = "image"
	}
	objectPath := fmt.Sprintf("memories/%s-%s%s", base, uuid.New().String(), ext)

	uploadURL, err := s.blobs.PresignedPut(ctx, objectPath, s.urlTTL)
	if err != nil {
		return nil, err
	}
	return &UploadGrant{
		UploadURL: uploadURL,
		BlobURL:   s.blobs.PublicURL(objectPath),
		BlobPath:  objectPath,
		ExpiresAt: time.Now().Add(s.urlTTL),
	}, nil
}
