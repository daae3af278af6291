package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bongdaha/livescore/internal/favorites"
	"github.com/bongdaha/livescore/internal/feed"
	"github.com/bongdaha/livescore/internal/platform/logging"
)

// fakeProxy serves the proxy contract with canned payloads and records
// which detail ids get polled.
type fakeProxy struct {
	mu           sync.Mutex
	fixturesBody string
	liveBody     string
	newsBody     string
	detailBody   map[int64]string
	detailStatus int
	detailedIDs  []int64
}

func newFakeProxy() *fakeProxy {
	return &fakeProxy{
		fixturesBody: "[]",
		liveBody:     "[]",
		newsBody:     "[]",
		detailBody:   make(map[int64]string),
	}
}

func (p *fakeProxy) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/fixtures", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		body := p.fixturesBody
		p.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("GET /api/live", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		body := p.liveBody
		p.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("GET /api/news", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		body := p.newsBody
		p.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("GET /api/fixture-detail", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		fmt.Sscanf(r.URL.Query().Get("id"), "%d", &id)

		p.mu.Lock()
		p.detailedIDs = append(p.detailedIDs, id)
		body, ok := p.detailBody[id]
		status := p.detailStatus
		p.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if !ok {
			body = `{"response":[]}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
	return mux
}

func (p *fakeProxy) polledIDs() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int64, len(p.detailedIDs))
	copy(out, p.detailedIDs)
	return out
}

func fixtureJSON(id int64, status, home, away string) string {
	return fmt.Sprintf(`{"fixture":{"id":%d,"date":"2025-03-07T19:30:00Z","status":{"short":%q,"elapsed":null}},`+
		`"league":{"id":39,"name":"Premier League","country":"England","flag":"","logo":""},`+
		`"teams":{"home":{"id":1,"name":%q,"logo":""},"away":{"id":2,"name":%q,"logo":""}},`+
		`"goals":{"home":null,"away":null}}`, id, status, home, away)
}

func startTestEngine(t *testing.T, proxy *fakeProxy) (*Engine, context.CancelFunc) {
	t.Helper()

	srv := httptest.NewServer(proxy.handler())
	t.Cleanup(srv.Close)

	feedClient := feed.NewClient(feed.ClientConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
	favs := favorites.Load(filepath.Join(t.TempDir(), "favorites.json"), logging.NewNop())

	eng := New(feedClient, favs, Config{
		RefreshInterval: 40 * time.Millisecond,
		DetailInterval:  15 * time.Millisecond,
		ClockInterval:   10 * time.Millisecond,
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	eng.Start(ctx)
	t.Cleanup(cancel)
	return eng, cancel
}

func waitForRegions(t *testing.T, eng *Engine, want func(Regions) bool) Regions {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		regions, err := eng.Snapshot(ctx)
		cancel()
		if err == nil && want(regions) {
			return regions
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("regions never reached the wanted shape")
	return Regions{}
}

func TestEngine_RefreshPopulatesRegions(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	proxy.fixturesBody = "[" + fixtureJSON(1, "NS", "Arsenal", "Chelsea") + "]"
	proxy.liveBody = "[" + fixtureJSON(2, "1H", "Liverpool", "Everton") + "]"
	proxy.newsBody = `[{"title":"Derby day","link":"https://example.com","pubDate":"2025-03-07T10:00:00Z"}]`

	eng, _ := startTestEngine(t, proxy)

	regions := waitForRegions(t, eng, func(r Regions) bool {
		return strings.Contains(r.Fixtures, "Arsenal")
	})
	if !strings.Contains(regions.Carousel, "Liverpool") {
		t.Fatalf("carousel missing live fixture: %q", regions.Carousel)
	}
	if !strings.Contains(regions.News, "Derby day") {
		t.Fatalf("news missing headline: %q", regions.News)
	}
	if !strings.Contains(regions.LiveBadge, ">1<") {
		t.Fatalf("live badge should count one match: %q", regions.LiveBadge)
	}
}

func TestEngine_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	eng, _ := startTestEngine(t, proxy)

	// A second Start must not spawn a second loop.
	eng.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := eng.Dispatch(ctx, SelectTab{Tab: "live"}); err != nil {
		t.Fatalf("dispatch after double start: %v", err)
	}
}

func TestEngine_DoubleOpenKeepsSinglePollHandle(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	proxy.detailBody[100] = `{"response":[` + fixtureJSON(100, "1H", "HomeA", "AwayA") + `]}`
	proxy.detailBody[200] = `{"response":[` + fixtureJSON(200, "1H", "HomeB", "AwayB") + `]}`

	eng, _ := startTestEngine(t, proxy)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := eng.Dispatch(ctx, OpenDetail{FixtureID: 100}); err != nil {
		t.Fatalf("open 100: %v", err)
	}
	if _, err := eng.Dispatch(ctx, OpenDetail{FixtureID: 200}); err != nil {
		t.Fatalf("open 200: %v", err)
	}

	regions := waitForRegions(t, eng, func(r Regions) bool {
		return strings.Contains(r.Detail, "HomeB")
	})
	if strings.Contains(regions.Detail, "HomeA") {
		t.Fatalf("stale detail for 100 leaked into regions")
	}

	// Give the swapped poll a few ticks, then verify 100 is never polled
	// again: exactly one live handle remains.
	time.Sleep(100 * time.Millisecond)
	before := len(proxy.polledIDs())
	time.Sleep(100 * time.Millisecond)
	ids := proxy.polledIDs()
	if len(ids) <= before {
		t.Fatalf("poll for 200 stopped unexpectedly")
	}
	for _, id := range ids[before:] {
		if id != 200 {
			t.Fatalf("fixture %d was polled after opening 200", id)
		}
	}
}

func TestEngine_EmptyDetailResponseStopsPolling(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()

	eng, _ := startTestEngine(t, proxy)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := eng.Dispatch(ctx, OpenDetail{FixtureID: 999}); err != nil {
		t.Fatalf("open 999: %v", err)
	}

	regions := waitForRegions(t, eng, func(r Regions) bool {
		return strings.Contains(r.Detail, "No match data")
	})
	if !regions.DetailOpen {
		t.Fatalf("detail pane should stay open on the empty state")
	}

	// The poll handle is gone: no further detail requests arrive.
	time.Sleep(60 * time.Millisecond)
	before := len(proxy.polledIDs())
	time.Sleep(100 * time.Millisecond)
	if after := len(proxy.polledIDs()); after != before {
		t.Fatalf("dangling poll: %d requests before, %d after", before, after)
	}
}

func TestEngine_FailedDetailFetchKeepsPolling(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	proxy.mu.Lock()
	proxy.detailStatus = http.StatusBadGateway
	proxy.mu.Unlock()

	eng, _ := startTestEngine(t, proxy)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := eng.Dispatch(ctx, OpenDetail{FixtureID: 5}); err != nil {
		t.Fatalf("open 5: %v", err)
	}

	waitForRegions(t, eng, func(r Regions) bool {
		return strings.Contains(r.Detail, "Load failed")
	})

	// Transient failures retry on the next tick instead of dropping the
	// handle.
	before := len(proxy.polledIDs())
	time.Sleep(100 * time.Millisecond)
	if after := len(proxy.polledIDs()); after <= before {
		t.Fatalf("poll stopped after transient failure")
	}
}

func TestEngine_CloseDetailStopsPolling(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	proxy.detailBody[100] = `{"response":[` + fixtureJSON(100, "1H", "HomeA", "AwayA") + `]}`

	eng, _ := startTestEngine(t, proxy)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := eng.Dispatch(ctx, OpenDetail{FixtureID: 100}); err != nil {
		t.Fatalf("open: %v", err)
	}
	waitForRegions(t, eng, func(r Regions) bool {
		return strings.Contains(r.Detail, "HomeA")
	})

	regions, err := eng.Dispatch(ctx, CloseDetail{})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if regions.DetailOpen || regions.Detail != "" {
		t.Fatalf("closed pane still rendered: %+v", regions.DetailOpen)
	}

	time.Sleep(60 * time.Millisecond)
	before := len(proxy.polledIDs())
	time.Sleep(100 * time.Millisecond)
	if after := len(proxy.polledIDs()); after != before {
		t.Fatalf("dangling poll after close: %d -> %d", before, after)
	}
}

func TestEngine_ToggleFavoriteReflectsInFixtures(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	proxy.fixturesBody = "[" + fixtureJSON(42, "NS", "Arsenal", "Chelsea") + "]"

	eng, _ := startTestEngine(t, proxy)
	waitForRegions(t, eng, func(r Regions) bool {
		return strings.Contains(r.Fixtures, "Arsenal")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	regions, err := eng.Dispatch(ctx, ToggleFavorite{FixtureID: 42})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !strings.Contains(regions.Fixtures, "star-btn on") {
		t.Fatalf("starred fixture not marked: %q", regions.Fixtures)
	}

	regions, err = eng.Dispatch(ctx, ToggleFavorite{FixtureID: 42})
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if strings.Contains(regions.Fixtures, "star-btn on") {
		t.Fatalf("double toggle should restore the unstarred row")
	}
}

func TestEngine_ShutdownStopsLoop(t *testing.T) {
	t.Parallel()

	proxy := newFakeProxy()
	eng, cancel := startTestEngine(t, proxy)
	cancel()

	ctx, dispatchCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer dispatchCancel()
	if _, err := eng.Dispatch(ctx, SelectTab{Tab: "all"}); err == nil {
		t.Fatalf("dispatch should fail after shutdown")
	}
}
