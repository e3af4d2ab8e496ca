// Package dataset reads and writes the bundled story datasets: one
// JSON object per line, one line per story.
package dataset

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Item is one scraped story.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	By          string    `json:"by,omitempty"`
	Score       int       `json:"score,omitempty"`
	URL         string    `json:"url,omitempty"`
	Body        string    `json:"text,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Text joins the parts of the item that carry words.
func (it Item) Text() string {
	if it.Body == "" {
		return it.Title
	}
	return it.Title + " " + it.Body
}

// Label identifies the item in matrices and run output.
func (it Item) Label() string {
	return fmt.Sprintf("%d", it.ID)
}

// LoadFromJSONL loads items from a JSONL file. Malformed lines are
// skipped with a warning rather than failing the whole load.
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}
	return items, nil
}

// WriteJSONL writes items as one JSON object per line.
func WriteJSONL(path string, items []Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			f.Close()
			return fmt.Errorf("encode item %d: %w", item.ID, err)
		}
	}
	return f.Close()
}
