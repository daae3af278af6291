package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/bongdaha/livescore/internal/domain/fixture"
	"github.com/bongdaha/livescore/internal/domain/news"
	"github.com/bongdaha/livescore/internal/platform/logging"
	"github.com/bongdaha/livescore/internal/view"
)

const maxBodySize = 6 << 20

// Client reads the dashboard's own proxy endpoints. Every accessor is a
// safe fetch: any transport, status, or decode failure logs a warning and
// yields a neutral value, so a refresh pass can never crash the engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		logger:     logger,
	}
}

// FixturesForDay lists the fixtures kicking off on day, in feed order.
// Always non-nil.
func (c *Client) FixturesForDay(ctx context.Context, day time.Time) []fixture.Fixture {
	var fixtures []fixture.Fixture
	query := url.Values{"date": []string{view.DayKey(day)}}
	if !c.getJSON(ctx, "/api/fixtures", query, &fixtures) || fixtures == nil {
		return []fixture.Fixture{}
	}
	return fixtures
}

// Live lists every in-play fixture. Always non-nil.
func (c *Client) Live(ctx context.Context) []fixture.Fixture {
	var fixtures []fixture.Fixture
	if !c.getJSON(ctx, "/api/live", nil, &fixtures) || fixtures == nil {
		return []fixture.Fixture{}
	}
	return fixtures
}

// News lists the latest headlines. Always non-nil.
func (c *Client) News(ctx context.Context) []news.Item {
	var items []news.Item
	if !c.getJSON(ctx, "/api/news", nil, &items) || items == nil {
		return []news.Item{}
	}
	return items
}

// FixtureDetail fetches the enriched fixture for one id. found is false
// when the proxy answered cleanly but knows no such fixture; the error is
// non-nil only when the fetch itself failed and a retry might still
// succeed.
func (c *Client) FixtureDetail(ctx context.Context, id int64) (fx fixture.Fixture, found bool, err error) {
	var envelope struct {
		Response []fixture.Fixture `json:"response"`
	}
	query := url.Values{"id": []string{strconv.FormatInt(id, 10)}}
	if !c.getJSON(ctx, "/api/fixture-detail", query, &envelope) {
		return fixture.Fixture{}, false, fmt.Errorf("fixture detail fetch failed for id %d", id)
	}
	if len(envelope.Response) == 0 {
		return fixture.Fixture{}, false, nil
	}
	return envelope.Response[0], true, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) bool {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "feed request build failed", "url", fullURL, "error", err)
		return false
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "feed request failed", "url", fullURL, "error", err)
		return false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.WarnContext(ctx, "feed response read failed", "url", fullURL, "error", err)
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "feed response rejected",
			"url", fullURL, "status", resp.StatusCode, "error", fmt.Errorf("unexpected status %d", resp.StatusCode))
		return false
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		c.logger.WarnContext(ctx, "feed response decode failed", "url", fullURL, "error", err)
		return false
	}
	return true
}
