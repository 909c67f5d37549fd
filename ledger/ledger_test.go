package ledger

import (
	"os"
	"path/filepath"
	"testing"
)

func tempLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posted_videos.json")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestAppend_Idempotent(t *testing.T) {
	l, _ := tempLedger(t)

	rec := &VideoRecord{
		SourceURL:   "https://cdn.example.com/a.mp4",
		ContentHash: "abc123",
		Title:       "first",
		PublishResults: []PublishResult{
			{AccountID: "1", Status: StatusSuccess},
		},
	}

	if err := l.Append(rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append(&VideoRecord{SourceURL: "https://cdn.example.com/a.mp4", Title: "same url"}); err != nil {
		t.Fatalf("Append() duplicate url error = %v", err)
	}
	if err := l.Append(&VideoRecord{SourceURL: "https://cdn.example.com/other.mp4", ContentHash: "abc123"}); err != nil {
		t.Fatalf("Append() duplicate hash error = %v", err)
	}

	if got := l.Len(); got != 1 {
		t.Errorf("Len() = %d after duplicate appends, want 1", got)
	}
}

func TestContains(t *testing.T) {
	l, _ := tempLedger(t)

	rec := &VideoRecord{
		SourceURL:   "https://cdn.example.com/v.mp4",
		ContentHash: "deadbeef",
	}
	if err := l.Append(rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	tests := []struct {
		name      string
		sourceURL string
		hash      string
		want      bool
	}{
		{"url match", "https://cdn.example.com/v.mp4", "", true},
		{"hash match different url", "https://cdn.example.com/x.mp4", "deadbeef", true},
		{"no match", "https://cdn.example.com/x.mp4", "", false},
		{"hash not checked when empty", "https://cdn.example.com/x.mp4", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Contains(tt.sourceURL, tt.hash); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.sourceURL, tt.hash, got, tt.want)
			}
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	l, _ := tempLedger(t)
	if got := l.Len(); got != 0 {
		t.Errorf("Len() = %d for missing file, want 0", got)
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted_videos.json")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v for empty file", err)
	}
	defer l.Close()

	if got := l.Len(); got != 0 {
		t.Errorf("Len() = %d for empty file, want 0", got)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted_videos.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v for corrupt file, want nil", err)
	}
	defer l.Close()

	if got := l.Len(); got != 0 {
		t.Errorf("Len() = %d for corrupt file, want 0", got)
	}
}

func TestAppend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted_videos.json")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rec := &VideoRecord{SourceURL: "https://cdn.example.com/v.mp4", Title: "persisted"}
	if err := l.Append(rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if rec.ID == "" {
		t.Error("Append() did not assign an ID")
	}
	if rec.DiscoveredAt.IsZero() {
		t.Error("Append() did not stamp DiscoveredAt")
	}
	l.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	defer reopened.Close()

	if !reopened.Contains("https://cdn.example.com/v.mp4", "") {
		t.Error("reopened ledger does not contain appended record")
	}
}

func TestVideoRecord_Succeeded(t *testing.T) {
	rec := &VideoRecord{
		PublishResults: []PublishResult{
			{AccountID: "1", Status: StatusFailed},
			{AccountID: "2", Status: StatusError},
		},
	}
	if rec.Succeeded() {
		t.Error("Succeeded() = true with no successful result")
	}

	rec.PublishResults = append(rec.PublishResults, PublishResult{AccountID: "3", Status: StatusSuccess})
	if !rec.Succeeded() {
		t.Error("Succeeded() = false with one successful result")
	}
}
