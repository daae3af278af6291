package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/bongdaha/livescore/external/apisports"
	"github.com/bongdaha/livescore/external/rssnews"
	"github.com/bongdaha/livescore/internal/domain/fixture"
	"github.com/bongdaha/livescore/internal/domain/news"
	"github.com/bongdaha/livescore/internal/platform/cache"
	"github.com/bongdaha/livescore/internal/platform/logging"
)

// Service is the read-through cache between the HTTP proxy surface and the
// upstream providers. Every accessor degrades to a neutral value, so the
// proxy never answers with null arrays even when a provider is down.
type Service struct {
	api    *apisports.Client
	news   *rssnews.Client
	logger *logging.Logger

	fixtures *cache.Store[[]fixture.Fixture]
	live     *cache.Store[[]fixture.Fixture]
	detail   *cache.Store[[]fixture.Fixture]
	headline *cache.Store[[]news.Item]
}

type Config struct {
	FixturesTTL time.Duration
	LiveTTL     time.Duration
	DetailTTL   time.Duration
	NewsTTL     time.Duration
}

func normalizeTTL(ttl, fallback time.Duration) time.Duration {
	if ttl <= 0 {
		return fallback
	}
	return ttl
}

func NewService(api *apisports.Client, newsClient *rssnews.Client, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		api:      api,
		news:     newsClient,
		logger:   logger,
		fixtures: cache.NewStore[[]fixture.Fixture](normalizeTTL(cfg.FixturesTTL, 60*time.Second)),
		live:     cache.NewStore[[]fixture.Fixture](normalizeTTL(cfg.LiveTTL, 15*time.Second)),
		detail:   cache.NewStore[[]fixture.Fixture](normalizeTTL(cfg.DetailTTL, 10*time.Second)),
		headline: cache.NewStore[[]news.Item](normalizeTTL(cfg.NewsTTL, 5*time.Minute)),
	}
}

// FixturesForDay returns the day's fixture list, never nil.
func (s *Service) FixturesForDay(ctx context.Context, ymd string) []fixture.Fixture {
	out, err := s.fixtures.GetOrLoad(ctx, "fixtures:"+ymd, func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.api.FixturesByDate(ctx, ymd)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "fixtures snapshot load failed", "date", ymd, "error", err)
		return []fixture.Fixture{}
	}
	if out == nil {
		return []fixture.Fixture{}
	}
	return out
}

// Live returns every in-play fixture, never nil.
func (s *Service) Live(ctx context.Context) []fixture.Fixture {
	out, err := s.live.GetOrLoad(ctx, "live", func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.api.LiveFixtures(ctx)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "live snapshot load failed", "error", err)
		return []fixture.Fixture{}
	}
	if out == nil {
		return []fixture.Fixture{}
	}
	return out
}

// Detail returns the enriched fixture payload for one id. An unknown id
// yields an empty list; callers decide what absence means.
func (s *Service) Detail(ctx context.Context, id int64) []fixture.Fixture {
	key := fmt.Sprintf("detail:%d", id)
	out, err := s.detail.GetOrLoad(ctx, key, func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.api.FixtureByID(ctx, id)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "fixture detail load failed", "fixtureId", id, "error", err)
		return []fixture.Fixture{}
	}
	if out == nil {
		return []fixture.Fixture{}
	}
	return out
}

// News returns the cached headline list, never nil. The underlying feed
// client already degrades to empty on failure.
func (s *Service) News(ctx context.Context) []news.Item {
	out, err := s.headline.GetOrLoad(ctx, "news", func(ctx context.Context) ([]news.Item, error) {
		return s.news.Latest(ctx), nil
	})
	if err != nil || out == nil {
		return []news.Item{}
	}
	return out
}
