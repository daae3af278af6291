package rssnews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bongdaha/livescore/internal/platform/logging"
)

func rssDocument(items ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Sports</title>`)
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>`,
		title, link, published.UTC().Format(time.RFC1123Z),
	)
}

func newFeedClient(t *testing.T, body string, limit int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		FeedURL:   srv.URL,
		ItemLimit: limit,
		Timeout:   2 * time.Second,
		Logger:    logging.NewNop(),
	})
}

func TestLatest_SortsNewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	client := newFeedClient(t, rssDocument(
		rssItem("Oldest", "https://news.test/1", base),
		rssItem("Newest", "https://news.test/2", base.Add(2*time.Hour)),
		rssItem("Middle", "https://news.test/3", base.Add(time.Hour)),
	), 15)

	items := client.Latest(context.Background())
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[0].Title != "Newest" || items[1].Title != "Middle" || items[2].Title != "Oldest" {
		t.Fatalf("order = %q, %q, %q", items[0].Title, items[1].Title, items[2].Title)
	}
	if items[0].Link != "https://news.test/2" {
		t.Fatalf("link = %q", items[0].Link)
	}
}

func TestLatest_CapsAtItemLimit(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	entries := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		entries = append(entries, rssItem(
			fmt.Sprintf("Headline %d", i),
			fmt.Sprintf("https://news.test/%d", i),
			base.Add(time.Duration(i)*time.Minute),
		))
	}
	client := newFeedClient(t, rssDocument(entries...), 4)

	items := client.Latest(context.Background())
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	if items[0].Title != "Headline 5" {
		t.Fatalf("first item = %q", items[0].Title)
	}
}

func TestLatest_SkipsUntitledEntries(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	client := newFeedClient(t, rssDocument(
		rssItem("  ", "https://news.test/blank", base),
		rssItem("Kept", "https://news.test/kept", base),
	), 15)

	items := client.Latest(context.Background())
	if len(items) != 1 || items[0].Title != "Kept" {
		t.Fatalf("items = %+v", items)
	}
}

func TestLatest_BrokenFeedReturnsEmpty(t *testing.T) {
	t.Parallel()

	client := newFeedClient(t, "not xml at all", 15)

	items := client.Latest(context.Background())
	if items == nil {
		t.Fatalf("broken feed should return a non-nil empty slice")
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
}

func TestLatest_EmptyURLReturnsEmpty(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	items := client.Latest(context.Background())
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
}
