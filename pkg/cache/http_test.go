package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestShouldRevalidate(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{
			name:  "nil entry",
			entry: nil,
			want:  false,
		},
		{
			name:  "fresh entry served directly",
			entry: &Entry{ETag: `"abc"`, Expires: time.Now().Add(time.Minute)},
			want:  false,
		},
		{
			name:  "stale entry with etag",
			entry: &Entry{ETag: `"abc"`, Expires: time.Now().Add(-time.Minute)},
			want:  true,
		},
		{
			name:  "stale entry without etag",
			entry: &Entry{Expires: time.Now().Add(-time.Minute)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRevalidate(tt.entry); got != tt.want {
				t.Errorf("ShouldRevalidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/user", nil)
	AddConditionalHeaders(req, &Entry{ETag: `"abc123"`})
	if got := req.Header.Get("If-None-Match"); got != `"abc123"` {
		t.Errorf("If-None-Match = %q, want the entry's ETag", got)
	}

	bare, _ := http.NewRequest(http.MethodGet, "https://api.github.com/user", nil)
	AddConditionalHeaders(bare, &Entry{})
	if got := bare.Header.Get("If-None-Match"); got != "" {
		t.Errorf("If-None-Match = %q, want empty without an ETag", got)
	}
}

func TestNewEntry(t *testing.T) {
	header := http.Header{}
	header.Set("ETag", `"abc"`)
	header.Set("Cache-Control", "max-age=120")

	entry := NewEntry(http.StatusOK, header, []byte(`{"ok": true}`), time.Minute)
	if entry == nil {
		t.Fatal("NewEntry returned nil for a response with an ETag")
	}
	if entry.ETag != `"abc"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", entry.StatusCode)
	}
	// max-age=120 overrides the 60s fallback.
	if ttl := entry.TTL(); ttl <= time.Minute || ttl > 2*time.Minute {
		t.Errorf("TTL() = %v, want about 2m from max-age", ttl)
	}
}

func TestNewEntry_RequiresETag(t *testing.T) {
	if entry := NewEntry(http.StatusOK, http.Header{}, []byte(`{}`), time.Minute); entry != nil {
		t.Error("NewEntry should return nil without an ETag")
	}
}
