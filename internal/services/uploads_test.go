package services

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewGrant_AllowlistAndPathShape(t *testing.T) {
	svc := NewUploadService(&fakeBlob{}, 10*time.Minute)

	for _, bad := range []string{"image/gif", "application/pdf", "text/html", ""} {
		if _, err := svc.NewGrant(context.Background(), "f.bin", bad); !IsValidationError(err) {
			t.Fatalf("content type %q: want ValidationError, got %v", bad, err)
		}
	}

	g, err := svc.NewGrant(context.Background(), "sunset.jpeg", "image/jpeg")
	if err != nil {
		t.Fatalf("NewGrant: %v", err)
	}
	if !strings.HasPrefix(g.BlobPath, "memories/sunset-") || !strings.HasSuffix(g.BlobPath, ".jpg") {
		t.Fatalf("object path: %q", g.BlobPath)
	}
	if g.UploadURL == "" || g.BlobURL != "https://blobs.example.test/"+g.BlobPath {
		t.Fatalf("grant urls: %+v", g)
	}
	if !g.ExpiresAt.After(time.Now()) {
		t.Fatalf("grant already expired: %v", g.ExpiresAt)
	}
}

func TestNewGrant_PathsNeverCollide(t *testing.T) {
	svc := NewUploadService(&fakeBlob{}, time.Minute)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		g, err := svc.NewGrant(context.Background(), "photo.png", "image/png")
		if err != nil {
			t.Fatalf("NewGrant: %v", err)
		}
		if seen[g.BlobPath] {
			t.Fatalf("duplicate object path %q", g.BlobPath)
		}
		seen[g.BlobPath] = true
	}
}
