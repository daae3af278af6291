package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bongdaha/livescore/external/apisports"
	"github.com/bongdaha/livescore/external/rssnews"
	"github.com/bongdaha/livescore/internal/platform/logging"
)

func newServiceAgainst(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := apisports.NewClient(apisports.ClientConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
	feed := rssnews.NewClient(rssnews.ClientConfig{Logger: logging.NewNop()})
	return NewService(api, feed, Config{FixturesTTL: time.Minute, LiveTTL: time.Minute}, logging.NewNop())
}

func TestFixturesForDay_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	service := newServiceAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"get":"fixtures","errors":[],"results":0,"response":[]}`)
	}))

	ctx := context.Background()
	service.FixturesForDay(ctx, "2025-03-07")
	service.FixturesForDay(ctx, "2025-03-07")
	require.EqualValues(t, 1, calls.Load(), "same day should be served from cache")

	service.FixturesForDay(ctx, "2025-03-08")
	require.EqualValues(t, 2, calls.Load(), "different day should miss the cache")
}

func TestAccessors_NeutralValuesWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	service := newServiceAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx := context.Background()
	require.NotNil(t, service.FixturesForDay(ctx, "2025-03-07"))
	require.Empty(t, service.FixturesForDay(ctx, "2025-03-07"))
	require.NotNil(t, service.Live(ctx))
	require.Empty(t, service.Live(ctx))
	require.NotNil(t, service.Detail(ctx, 42))
	require.Empty(t, service.Detail(ctx, 42))
	require.NotNil(t, service.News(ctx))
	require.Empty(t, service.News(ctx))
}

func TestDetail_KeyedPerFixture(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	service := newServiceAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"get":"fixtures","errors":[],"results":0,"response":[]}`)
	}))

	ctx := context.Background()
	service.Detail(ctx, 1)
	service.Detail(ctx, 1)
	service.Detail(ctx, 2)
	require.EqualValues(t, 2, calls.Load(), "detail entries cache per fixture id")
}
