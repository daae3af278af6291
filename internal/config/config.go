package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/bongdaha/livescore/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	FootballAPIBaseURL             string
	FootballAPIKey                 string
	FootballAPITimeout             time.Duration
	FootballAPIMaxRetries          int
	FootballAPICircuitEnabled      bool
	FootballAPICircuitFailureCount int
	FootballAPICircuitOpenTimeout  time.Duration
	FootballAPICircuitHalfOpenMax  int

	NewsFeedURL     string
	NewsFeedTimeout time.Duration
	NewsItemLimit   int

	FixturesCacheTTL time.Duration
	LiveCacheTTL     time.Duration
	DetailCacheTTL   time.Duration
	NewsCacheTTL     time.Duration
	PrewarmWorkers   int
	PrewarmInterval  time.Duration

	FeedBaseURL     string
	FeedTimeout     time.Duration
	RefreshInterval time.Duration
	DetailInterval  time.Duration
	ClockInterval   time.Duration
	FavoritesPath   string

	PprofEnabled               bool
	PprofAddr                  string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := zapcore.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	apiTimeout, err := getEnvAsDuration("FOOTBALL_API_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_TIMEOUT: %w", err)
	}
	apiMaxRetries, err := getEnvAsInt("FOOTBALL_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_MAX_RETRIES: %w", err)
	}
	apiCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_ENABLED: %w", err)
	}
	apiCircuitFailures, err := getEnvAsInt("FOOTBALL_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	apiCircuitOpenTimeout, err := getEnvAsDuration("FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	apiCircuitHalfOpenMax, err := getEnvAsInt("FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	newsFeedTimeout, err := getEnvAsDuration("NEWS_FEED_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWS_FEED_TIMEOUT: %w", err)
	}
	newsItemLimit, err := getEnvAsInt("NEWS_ITEM_LIMIT", 15)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWS_ITEM_LIMIT: %w", err)
	}

	fixturesTTL, err := getEnvAsDuration("FIXTURES_CACHE_TTL", 60*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FIXTURES_CACHE_TTL: %w", err)
	}
	liveTTL, err := getEnvAsDuration("LIVE_CACHE_TTL", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_CACHE_TTL: %w", err)
	}
	detailTTL, err := getEnvAsDuration("DETAIL_CACHE_TTL", 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse DETAIL_CACHE_TTL: %w", err)
	}
	newsTTL, err := getEnvAsDuration("NEWS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse NEWS_CACHE_TTL: %w", err)
	}
	prewarmWorkers, err := getEnvAsInt("PREWARM_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREWARM_WORKERS: %w", err)
	}
	prewarmInterval, err := getEnvAsDuration("PREWARM_INTERVAL", 45*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREWARM_INTERVAL: %w", err)
	}

	httpAddr := getEnv("APP_HTTP_ADDR", ":3000")
	feedBaseURL := strings.TrimSpace(getEnv("FEED_BASE_URL", defaultFeedBaseURL(httpAddr)))
	feedTimeout, err := getEnvAsDuration("FEED_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEOUT: %w", err)
	}
	refreshInterval, err := getEnvAsDuration("REFRESH_INTERVAL", 60*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
	}
	detailInterval, err := getEnvAsDuration("DETAIL_REFRESH_INTERVAL", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse DETAIL_REFRESH_INTERVAL: %w", err)
	}
	clockInterval, err := getEnvAsDuration("CLOCK_INTERVAL", time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse CLOCK_INTERVAL: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	return Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "livescore"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           httpAddr,
		LogLevel:           logLevel,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		FootballAPIBaseURL:             getEnv("FOOTBALL_API_BASE_URL", "https://v3.football.api-sports.io"),
		FootballAPIKey:                 strings.TrimSpace(getEnv("FOOTBALL_API_KEY", "")),
		FootballAPITimeout:             apiTimeout,
		FootballAPIMaxRetries:          apiMaxRetries,
		FootballAPICircuitEnabled:      apiCircuitEnabled,
		FootballAPICircuitFailureCount: apiCircuitFailures,
		FootballAPICircuitOpenTimeout:  apiCircuitOpenTimeout,
		FootballAPICircuitHalfOpenMax:  apiCircuitHalfOpenMax,

		NewsFeedURL:     getEnv("NEWS_FEED_URL", "https://vnexpress.net/rss/the-thao.rss"),
		NewsFeedTimeout: newsFeedTimeout,
		NewsItemLimit:   newsItemLimit,

		FixturesCacheTTL: fixturesTTL,
		LiveCacheTTL:     liveTTL,
		DetailCacheTTL:   detailTTL,
		NewsCacheTTL:     newsTTL,
		PrewarmWorkers:   prewarmWorkers,
		PrewarmInterval:  prewarmInterval,

		FeedBaseURL:     feedBaseURL,
		FeedTimeout:     feedTimeout,
		RefreshInterval: refreshInterval,
		DetailInterval:  detailInterval,
		ClockInterval:   clockInterval,
		FavoritesPath:   getEnv("FAVORITES_PATH", "data/favorites.json"),

		PprofEnabled:               pprofEnabled,
		PprofAddr:                  getEnv("PPROF_ADDR", "localhost:6060"),
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "livescore"),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

// defaultFeedBaseURL points the refresh engine at this process's own proxy
// surface when no explicit base is configured.
func defaultFeedBaseURL(httpAddr string) string {
	addr := strings.TrimSpace(httpAddr)
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
