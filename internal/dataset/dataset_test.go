package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.jsonl")

	want := []Item{
		{ID: 1, Title: "First story", By: "alice", Score: 10, PublishedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: 2, Title: "Second story", Body: "with a body", PublishedAt: time.Now().UTC().Truncate(time.Second)},
	}
	if err := WriteJSONL(path, want); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	got, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].ID != 1 || got[0].Title != "First story" || got[0].By != "alice" {
		t.Errorf("item 0 = %+v", got[0])
	}
	if got[1].Body != "with a body" {
		t.Errorf("item 1 body = %q", got[1].Body)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.jsonl")
	content := `{"id": 1, "title": "good"}
not json at all
{"id": 2, "title": "also good"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2 with the bad line skipped", len(items))
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromJSONL(path); err == nil {
		t.Fatal("empty file did not error")
	}
}

func TestItemText(t *testing.T) {
	it := Item{Title: "A title"}
	if got := it.Text(); got != "A title" {
		t.Errorf("Text() = %q", got)
	}
	it.Body = "the body"
	if got := it.Text(); got != "A title the body" {
		t.Errorf("Text() = %q", got)
	}
}
