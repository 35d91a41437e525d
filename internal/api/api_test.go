package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/auth"
	"github.com/memorylane/lane-server/internal/services"
	"github.com/memorylane/lane-server/internal/store/sqlite"
)

const testAdminPassword = "correct-horse"

// stubBlob implements blob.Store in-memory for handler tests.
type stubBlob struct {
	removed []string
	failAll bool
}

func (s *stubBlob) Remove(_ context.Context, paths ...string) ([]string, error) {
	if s.failAll {
		return paths, fmt.Errorf("blob store unreachable")
	}
	s.removed = append(s.removed, paths...)
	return nil, nil
}

func (s *stubBlob) PresignedPut(_ context.Context, objectPath string, _ time.Duration) (string, error) {
	return "https://blobs.example.test/upload/" + objectPath, nil
}

func (s *stubBlob) PublicURL(p string) string  { return "https://blobs.example.test/" + p }
func (s *stubBlob) Ping(context.Context) error { return nil }

type testEnv struct {
	router http.Handler
	blobs  *stubBlob
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	log := zerolog.Nop()
	blobs := &stubBlob{}

	codec := auth.NewTokenCodec("test-signing-secret", time.Hour)
	sessions := auth.NewSessionManager(codec, testAdminPassword, "lane_admin_token", time.Hour, false, log)

	router := NewRouter(RouterDeps{
		Log:      log,
		Sessions: sessions,
		Lanes:    services.NewLaneService(st, blobs, log),
		Memories: services.NewMemoryService(st, blobs, log),
		Images:   services.NewImageService(st, blobs, log),
		Uploads:  services.NewUploadService(blobs, 10*time.Minute),
	})
	return &testEnv{router: router, blobs: blobs}
}

// do issues a request against the in-process router. A non-nil body is
// JSON-encoded; cookies (if any) are attached.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := e.do(t, "POST", "/api/auth/login", map[string]string{"password": testAdminPassword}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login set no cookie")
	}
	return cookies
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "POST", "/api/auth/login", map[string]string{"password": "nope"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, "POST", "/api/auth/logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d", rec.Code)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) == 0 || cleared[0].Value != "" || cleared[0].MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie, got %+v", cleared)
	}

	// The follow-up request carries only the expired replacement.
	rec = env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "t"}, cleared)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("mutation after logout: status %d, want 401", rec.Code)
	}
}

func TestUnauthorizedMutationHasNoSideEffects(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "sneaky", "isPublic": true}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}

	var list struct {
		Count int `json:"count"`
	}
	decode(t, env.do(t, "GET", "/api/lanes", nil, nil), &list)
	if list.Count != 0 {
		t.Fatalf("rejected mutation wrote a row: count=%d", list.Count)
	}
}

func TestForgedCookieRejected(t *testing.T) {
	env := newTestEnv(t)
	forged := []*http.Cookie{{Name: "lane_admin_token", Value: "eyJhbGciOiJIUzI1NiJ9.forged.sig"}}
	rec := env.do(t, "DELETE", "/api/lanes/some-id", nil, forged)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestLaneVisibility(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	var pub, priv struct {
		LaneID string `json:"laneId"`
	}
	decode(t, env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "Public", "isPublic": true}, cookies), &pub)
	decode(t, env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "Private", "isPublic": false}, cookies), &priv)

	var anon, admin struct {
		Count int `json:"count"`
	}
	decode(t, env.do(t, "GET", "/api/lanes", nil, nil), &anon)
	decode(t, env.do(t, "GET", "/api/lanes", nil, cookies), &admin)
	if anon.Count != 1 || admin.Count != 2 {
		t.Fatalf("anon=%d admin=%d, want 1 and 2", anon.Count, admin.Count)
	}

	// A private lane and an absent lane are indistinguishable to an
	// anonymous caller, status and body alike.
	privRec := env.do(t, "GET", "/api/lanes/"+priv.LaneID, nil, nil)
	absentRec := env.do(t, "GET", "/api/lanes/no-such-lane", nil, nil)
	if privRec.Code != http.StatusNotFound || absentRec.Code != http.StatusNotFound {
		t.Fatalf("statuses %d/%d, want 404/404", privRec.Code, absentRec.Code)
	}
	if privRec.Body.String() != absentRec.Body.String() {
		t.Fatalf("private and absent lanes must share one body:\n%s\n%s", privRec.Body.String(), absentRec.Body.String())
	}

	// Same lane resolves for the admin.
	if rec := env.do(t, "GET", "/api/lanes/"+priv.LaneID, nil, cookies); rec.Code != http.StatusOK {
		t.Fatalf("admin read of private lane: status %d", rec.Code)
	}
}

func TestMemoryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	var lane struct {
		LaneID string `json:"laneId"`
	}
	decode(t, env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "Trip", "isPublic": true}, cookies), &lane)

	// Missing images is a field-keyed validation failure.
	rec := env.do(t, "POST", "/api/lanes/"+lane.LaneID+"/memories", map[string]interface{}{
		"title":     "Day one",
		"timestamp": "2024-07-14T10:30:00Z",
		"images":    []interface{}{},
	}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty images: status %d, want 400", rec.Code)
	}
	var vr struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &vr)
	if _, ok := vr.Errors["images"]; !ok {
		t.Fatalf("want images violation, got %v", vr.Errors)
	}

	rec = env.do(t, "POST", "/api/lanes/"+lane.LaneID+"/memories", map[string]interface{}{
		"title":     "Day one",
		"timestamp": "2024-07-14T10:30:00Z",
		"images": []map[string]interface{}{
			{"blobUrl": "https://blobs.example.test/memories/b.jpg", "blobPath": "memories/b.jpg", "order": 1},
			{"blobUrl": "https://blobs.example.test/memories/a.jpg", "blobPath": "memories/a.jpg", "order": 0},
		},
	}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create memory: status %d, body %s", rec.Code, rec.Body.String())
	}
	var mem struct {
		MemoryID string `json:"memoryId"`
		Images   []struct {
			ImageID string `json:"imageId"`
			Order   int    `json:"order"`
		} `json:"images"`
	}
	decode(t, rec, &mem)
	if len(mem.Images) != 2 {
		t.Fatalf("want 2 images, got %d", len(mem.Images))
	}

	// Detail read returns images ascending by order.
	var detail struct {
		Memories []struct {
			Images []struct {
				Order int `json:"order"`
			} `json:"images"`
		} `json:"memories"`
	}
	decode(t, env.do(t, "GET", "/api/lanes/"+lane.LaneID, nil, nil), &detail)
	if len(detail.Memories) != 1 || len(detail.Memories[0].Images) != 2 {
		t.Fatalf("detail shape: %+v", detail)
	}
	if detail.Memories[0].Images[0].Order != 0 || detail.Memories[0].Images[1].Order != 1 {
		t.Fatalf("images not ordered: %+v", detail.Memories[0].Images)
	}

	// Patch a scalar field.
	rec = env.do(t, "PATCH", "/api/memories/"+mem.MemoryID, map[string]interface{}{"title": "Day one, revised"}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("update memory: status %d, body %s", rec.Code, rec.Body.String())
	}

	// Cascade delete takes the image blobs with it.
	rec = env.do(t, "DELETE", "/api/memories/"+mem.MemoryID, nil, cookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete memory: status %d", rec.Code)
	}
	if len(env.blobs.removed) != 2 {
		t.Fatalf("blob deletions: %v", env.blobs.removed)
	}

	rec = env.do(t, "PATCH", "/api/memories/"+mem.MemoryID, map[string]interface{}{"title": "ghost"}, cookies)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update after delete: status %d, want 404", rec.Code)
	}
}

func TestDeleteLane_PartialCascadeReported(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	var lane struct {
		LaneID string `json:"laneId"`
	}
	decode(t, env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "Doomed", "isPublic": true}, cookies), &lane)
	rec := env.do(t, "POST", "/api/lanes/"+lane.LaneID+"/memories", map[string]interface{}{
		"title":     "m",
		"timestamp": "2024-01-01T00:00:00Z",
		"images": []map[string]interface{}{
			{"blobUrl": "https://blobs.example.test/memories/x.jpg", "blobPath": "memories/x.jpg", "order": 0},
		},
	}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create memory: status %d", rec.Code)
	}

	env.blobs.failAll = true
	rec = env.do(t, "DELETE", "/api/lanes/"+lane.LaneID, nil, cookies)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("partial cascade: status %d, want 502", rec.Code)
	}
	var pc struct {
		OrphanedPaths []string `json:"orphanedPaths"`
	}
	decode(t, rec, &pc)
	if len(pc.OrphanedPaths) != 1 || pc.OrphanedPaths[0] != "memories/x.jpg" {
		t.Fatalf("orphanedPaths: %v", pc.OrphanedPaths)
	}

	// The rows are gone regardless.
	if rec := env.do(t, "GET", "/api/lanes/"+lane.LaneID, nil, cookies); rec.Code != http.StatusNotFound {
		t.Fatalf("lane should be gone: status %d", rec.Code)
	}
}

func TestDeleteImage_BlobFailureStillNoContent(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	var lane struct {
		LaneID string `json:"laneId"`
	}
	decode(t, env.do(t, "POST", "/api/lanes", map[string]interface{}{"title": "L", "isPublic": true}, cookies), &lane)
	var mem struct {
		MemoryID string `json:"memoryId"`
		Images   []struct {
			ImageID string `json:"imageId"`
		} `json:"images"`
	}
	decode(t, env.do(t, "POST", "/api/lanes/"+lane.LaneID+"/memories", map[string]interface{}{
		"title":     "m",
		"timestamp": "2024-01-01T00:00:00Z",
		"images": []map[string]interface{}{
			{"blobUrl": "https://blobs.example.test/memories/y.jpg", "blobPath": "memories/y.jpg", "order": 0},
		},
	}, cookies), &mem)

	env.blobs.failAll = true
	rec := env.do(t, "DELETE", "/api/images/"+mem.Images[0].ImageID, nil, cookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete image with failing blob: status %d, want 204", rec.Code)
	}
}

func TestUploadGrant(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, "POST", "/api/uploads", map[string]string{"filename": "cat.gif", "contentType": "image/gif"}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("disallowed type: status %d, want 400", rec.Code)
	}

	rec = env.do(t, "POST", "/api/uploads", map[string]string{"filename": "beach day.png", "contentType": "image/png"}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("grant: status %d, body %s", rec.Code, rec.Body.String())
	}
	var grant struct {
		UploadURL string `json:"uploadUrl"`
		BlobURL   string `json:"blobUrl"`
		BlobPath  string `json:"blobPath"`
	}
	decode(t, rec, &grant)
	if grant.UploadURL == "" || grant.BlobURL == "" {
		t.Fatalf("incomplete grant: %+v", grant)
	}
	if !strings.HasPrefix(grant.BlobPath, "memories/beach day-") || !strings.HasSuffix(grant.BlobPath, ".png") {
		t.Fatalf("object path: %q", grant.BlobPath)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health without pingers: status %d", rec.Code)
	}

	failing := pingFunc(func(context.Context) error { return errors.New("down") })
	h := NewHealthHandler(failing, nil)
	req := httptest.NewRequest("GET", "/api/health", nil)
	out := httptest.NewRecorder()
	h.CheckHealth(out, req)
	if out.Code != http.StatusServiceUnavailable {
		t.Fatalf("health with failing store: status %d, want 503", out.Code)
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
