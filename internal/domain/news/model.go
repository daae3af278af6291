package news

import "time"

// Item is one headline from the sports feed.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"pubDate"`
}
