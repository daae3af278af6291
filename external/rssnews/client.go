package rssnews

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/bongdaha/livescore/internal/domain/news"
	"github.com/bongdaha/livescore/internal/platform/logging"
)

const defaultItemLimit = 15

// Client pulls a sports news RSS feed and keeps only the newest headlines.
type Client struct {
	feedURL   string
	itemLimit int
	parser    *gofeed.Parser
	logger    *logging.Logger
}

type ClientConfig struct {
	FeedURL   string
	ItemLimit int
	Timeout   time.Duration
	Logger    *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	limit := cfg.ItemLimit
	if limit <= 0 {
		limit = defaultItemLimit
	}

	parser := gofeed.NewParser()
	if cfg.Timeout > 0 {
		parser.Client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		feedURL:   strings.TrimSpace(cfg.FeedURL),
		itemLimit: limit,
		parser:    parser,
		logger:    logger,
	}
}

// Latest returns up to the configured number of headlines, newest first.
// A broken or unreachable feed degrades to an empty list.
func (c *Client) Latest(ctx context.Context) []news.Item {
	if c.feedURL == "" {
		return []news.Item{}
	}

	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "news feed fetch failed", "url", c.feedURL, "error", err)
		return []news.Item{}
	}

	items := make([]news.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil || strings.TrimSpace(entry.Title) == "" {
			continue
		}
		item := news.Item{
			Title: strings.TrimSpace(entry.Title),
			Link:  strings.TrimSpace(entry.Link),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if len(items) > c.itemLimit {
		items = items[:c.itemLimit]
	}
	return items
}
