package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/memorylane/lane-server/internal/services"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := err.(services.ValidationError)
	if !ok {
		t.Fatalf("want ValidationError, got %T (%v)", err, err)
	}
	return ve.Fields
}

func TestErrors_NoViolations(t *testing.T) {
	e := New()
	e.Title("title", "Summer in Lisbon")
	desc := "two weeks of photos"
	e.Description("description", &desc)
	e.URL("blobUrl", "https://blobs.example.test/memories/a.jpg")
	e.NonNegative("order", 0)
	if ts := e.Timestamp("timestamp", "2024-07-14T10:30:00Z"); ts.IsZero() {
		t.Fatalf("valid timestamp parsed to zero")
	}
	if err := e.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
}

func TestErrors_Title(t *testing.T) {
	e := New()
	e.Title("title", "")
	if got := fields(t, e.Err())["title"]; got != "title is required" {
		t.Fatalf("empty title message: %q", got)
	}

	e = New()
	e.Title("title", strings.Repeat("x", 201))
	if got := fields(t, e.Err())["title"]; !strings.Contains(got, "200") {
		t.Fatalf("overlong title message: %q", got)
	}

	e = New()
	e.Title("title", strings.Repeat("x", 200))
	if err := e.Err(); err != nil {
		t.Fatalf("title at the cap should pass: %v", err)
	}
}

func TestErrors_Description(t *testing.T) {
	e := New()
	e.Description("description", nil)
	if err := e.Err(); err != nil {
		t.Fatalf("nil description should pass: %v", err)
	}

	long := strings.Repeat("x", 2001)
	e = New()
	e.Description("description", &long)
	if _, ok := fields(t, e.Err())["description"]; !ok {
		t.Fatalf("overlong description not recorded")
	}
}

func TestErrors_Timestamp(t *testing.T) {
	for _, bad := range []string{"", "yesterday", "2024-13-01T00:00:00Z", "14/07/2024"} {
		e := New()
		e.Timestamp("timestamp", bad)
		if _, ok := fields(t, e.Err())["timestamp"]; !ok {
			t.Fatalf("timestamp %q accepted", bad)
		}
	}

	e := New()
	got := e.Timestamp("timestamp", "2024-07-14T10:30:00.000Z")
	if err := e.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	want := time.Date(2024, 7, 14, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}
}

func TestErrors_OptionalTimestamp(t *testing.T) {
	e := New()
	if got := e.OptionalTimestamp("timestamp", nil); got != nil {
		t.Fatalf("nil input should parse to nil")
	}
	if err := e.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	v := "not-a-time"
	e = New()
	if got := e.OptionalTimestamp("timestamp", &v); got != nil {
		t.Fatalf("invalid input should parse to nil")
	}
	if _, ok := fields(t, e.Err())["timestamp"]; !ok {
		t.Fatalf("invalid optional timestamp not recorded")
	}
}

func TestErrors_URL(t *testing.T) {
	for _, bad := range []string{"", "memories/a.jpg", "ftp://host/a.jpg", "https://"} {
		e := New()
		e.URL("blobUrl", bad)
		if _, ok := fields(t, e.Err())["blobUrl"]; !ok {
			t.Fatalf("url %q accepted", bad)
		}
	}
}

func TestErrors_NonNegative(t *testing.T) {
	e := New()
	e.NonNegative("order", -1)
	if _, ok := fields(t, e.Err())["order"]; !ok {
		t.Fatalf("negative order accepted")
	}
}

func TestErrors_FirstViolationPerFieldWins(t *testing.T) {
	e := New()
	e.Title("title", "")
	e.Title("title", strings.Repeat("x", 300))
	if got := fields(t, e.Err())["title"]; got != "title is required" {
		t.Fatalf("first violation should win, got %q", got)
	}
}

func TestErrors_AccumulatesAcrossFields(t *testing.T) {
	e := New()
	e.Title("title", "")
	e.Timestamp("timestamp", "nope")
	e.URL("blobUrl", "nope")
	got := fields(t, e.Err())
	if len(got) != 3 {
		t.Fatalf("want 3 field violations, got %v", got)
	}
}
