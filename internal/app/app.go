package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bongdaha/livescore/external/apisports"
	"github.com/bongdaha/livescore/external/rssnews"
	"github.com/bongdaha/livescore/internal/config"
	"github.com/bongdaha/livescore/internal/engine"
	"github.com/bongdaha/livescore/internal/favorites"
	"github.com/bongdaha/livescore/internal/feed"
	"github.com/bongdaha/livescore/internal/interfaces/httpapi"
	"github.com/bongdaha/livescore/internal/platform/logging"
	"github.com/bongdaha/livescore/internal/platform/resilience"
	"github.com/bongdaha/livescore/internal/snapshot"
)

// App wires the proxy surface and the refresh engine into one process.
// The engine deliberately talks to the proxy over HTTP rather than calling
// the snapshot service directly, so it exercises the same contract any
// external dashboard client would.
type App struct {
	Server    *http.Server
	Engine    *engine.Engine
	Prewarmer *snapshot.Prewarmer
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	apiClient := apisports.NewClient(apisports.ClientConfig{
		BaseURL:    cfg.FootballAPIBaseURL,
		APIKey:     cfg.FootballAPIKey,
		Timeout:    cfg.FootballAPITimeout,
		MaxRetries: cfg.FootballAPIMaxRetries,
		Logger:     logger.With("component", "apisports"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballAPICircuitEnabled,
			FailureThreshold: cfg.FootballAPICircuitFailureCount,
			OpenTimeout:      cfg.FootballAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballAPICircuitHalfOpenMax,
		},
	})

	newsClient := rssnews.NewClient(rssnews.ClientConfig{
		FeedURL:   cfg.NewsFeedURL,
		ItemLimit: cfg.NewsItemLimit,
		Timeout:   cfg.NewsFeedTimeout,
		Logger:    logger.With("component", "rssnews"),
	})

	snapshots := snapshot.NewService(apiClient, newsClient, snapshot.Config{
		FixturesTTL: cfg.FixturesCacheTTL,
		LiveTTL:     cfg.LiveCacheTTL,
		DetailTTL:   cfg.DetailCacheTTL,
		NewsTTL:     cfg.NewsCacheTTL,
	}, logger.With("component", "snapshot"))

	prewarmer, err := snapshot.NewPrewarmer(snapshots, snapshot.PrewarmerConfig{
		Workers:  cfg.PrewarmWorkers,
		Interval: cfg.PrewarmInterval,
		Logger:   logger.With("component", "prewarmer"),
	})
	if err != nil {
		return nil, fmt.Errorf("build prewarmer: %w", err)
	}

	favStore := favorites.Load(cfg.FavoritesPath, logger.With("component", "favorites"))

	feedClient := feed.NewClient(feed.ClientConfig{
		BaseURL: cfg.FeedBaseURL,
		Timeout: cfg.FeedTimeout,
		Logger:  logger.With("component", "feed"),
	})

	eng := engine.New(feedClient, favStore, engine.Config{
		RefreshInterval: cfg.RefreshInterval,
		DetailInterval:  cfg.DetailInterval,
		ClockInterval:   cfg.ClockInterval,
	}, logger.With("component", "engine"))

	handler := httpapi.NewHandler(eng, snapshots, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:    server,
		Engine:    eng,
		Prewarmer: prewarmer,
	}, nil
}

// Start launches the background workers. The HTTP server itself is started
// by the caller so it controls listen errors and shutdown.
func (a *App) Start(ctx context.Context) {
	a.Engine.Start(ctx)
	go a.Prewarmer.Run(ctx)
}
