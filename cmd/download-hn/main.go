// Command download-hn scrapes top Hacker News stories into the JSONL
// dataset format the fitting commands consume.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/cognicore/topika/internal/dataset"
)

func main() {
	var (
		count = flag.Int("count", 100, "number of top stories to download")
		out   = flag.String("out", "testdata/hn/stories.jsonl", "output JSONL path")
		delay = flag.Duration("delay", 50*time.Millisecond, "pause between API calls")
	)
	flag.Parse()

	dl := &downloader{
		baseURL: "https://hacker-news.firebaseio.com/v0",
		client:  &http.Client{Timeout: 30 * time.Second},
		delay:   *delay,
	}

	log.Printf("Downloading top %d Hacker News stories...", *count)
	items, err := dl.topStories(*count)
	if err != nil {
		log.Fatal("Failed to download stories: ", err)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal("Failed to create output directory: ", err)
	}
	if err := dataset.WriteJSONL(*out, items); err != nil {
		log.Fatal("Failed to write output: ", err)
	}

	log.Printf("Wrote %d stories to %s", len(items), *out)
}

// hnItem is the Hacker News API item shape.
type hnItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	By    string `json:"by"`
	Time  int64  `json:"time"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type downloader struct {
	baseURL string
	client  *http.Client
	delay   time.Duration
}

// topStories fetches up to count top stories and converts them to
// dataset items. Non-story items and items without a title are
// skipped; fetch failures for individual items are logged and skipped.
func (d *downloader) topStories(count int) ([]dataset.Item, error) {
	ids, err := d.topStoryIDs()
	if err != nil {
		return nil, err
	}
	if count < len(ids) {
		ids = ids[:count]
	}

	var items []dataset.Item
	for i, id := range ids {
		raw, err := d.item(id)
		if err != nil {
			log.Printf("Failed to get item %d: %v", id, err)
			continue
		}
		if raw.Type != "story" || raw.Title == "" {
			continue
		}

		items = append(items, toItem(raw))
		if (i+1)%10 == 0 {
			log.Printf("Downloaded %d/%d stories...", len(items), len(ids))
		}
		time.Sleep(d.delay)
	}
	return items, nil
}

func (d *downloader) topStoryIDs() ([]int64, error) {
	resp, err := d.client.Get(d.baseURL + "/topstories.json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("top stories: HTTP %d", resp.StatusCode)
	}

	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (d *downloader) item(id int64) (*hnItem, error) {
	resp, err := d.client.Get(fmt.Sprintf("%s/item/%d.json", d.baseURL, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("item %d: HTTP %d", id, resp.StatusCode)
	}

	var item hnItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// toItem converts an API item into the dataset format. The body text
// arrives as HTML fragments and is flattened to plain text.
func toItem(raw *hnItem) dataset.Item {
	return dataset.Item{
		ID:          raw.ID,
		Title:       raw.Title,
		By:          raw.By,
		Score:       raw.Score,
		URL:         raw.URL,
		Body:        stripHTML(raw.Text),
		PublishedAt: time.Unix(raw.Time, 0).UTC(),
	}
}

// stripHTML flattens an HTML fragment to its text content.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)

	return strings.TrimSpace(buf.String())
}
