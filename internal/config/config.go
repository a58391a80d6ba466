package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	LogLevel  string
	LogFormat string

	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string
	DBSSL  string
	DBLog  bool

	SeedDemo bool

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string
	SearchResync    string

	JWTSecret string

	FCMEndpoint  string
	FCMServerKey string
	FCMTimeout   time.Duration

	RateLimitGlobal time.Duration
	RateLimitItem   time.Duration

	Match MatchConfig
}

// MatchConfig holds the match policy constants. The thresholds are product
// tunables, not structural.
type MatchConfig struct {
	QueryMinScore   int
	NotifyMinScore  int
	ResultLimit     int
	NotifyMax       int
	PoolLimit       int
	DispatchTimeout time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "lost_and_found"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBSSL:  getEnv("DB_SSLMODE", "disable"),
		DBLog:  getEnv("DB_LOG", "false") == "true",

		SeedDemo: getEnv("SEED_DEMO", "false") == "true",

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),
		SearchResync:    getEnv("SEARCH_RESYNC_CRON", "@every 6h"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		FCMEndpoint:  getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
		FCMServerKey: os.Getenv("FCM_SERVER_KEY"),
	}

	var err error
	if cfg.RateLimitGlobal, err = parseDuration(getEnv("RATE_LIMIT_GLOBAL", "5s")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GLOBAL: %w", err)
	}
	if cfg.RateLimitItem, err = parseDuration(getEnv("RATE_LIMIT_ITEM", "30s")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ITEM: %w", err)
	}
	if cfg.FCMTimeout, err = parseDuration(getEnv("FCM_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid FCM_TIMEOUT: %w", err)
	}

	if cfg.Match, err = loadMatchConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadMatchConfig() (MatchConfig, error) {
	var (
		m   MatchConfig
		err error
	)

	ints := []struct {
		key      string
		fallback string
		dst      *int
	}{
		{"MATCH_QUERY_MIN_SCORE", "0", &m.QueryMinScore},
		{"MATCH_NOTIFY_MIN_SCORE", "30", &m.NotifyMinScore},
		{"MATCH_RESULT_LIMIT", "20", &m.ResultLimit},
		{"MATCH_NOTIFY_MAX", "0", &m.NotifyMax},
		{"MATCH_POOL_LIMIT", "0", &m.PoolLimit},
	}
	for _, v := range ints {
		n, convErr := strconv.Atoi(getEnv(v.key, v.fallback))
		if convErr != nil {
			return m, fmt.Errorf("invalid %s: %w", v.key, convErr)
		}
		if n < 0 {
			return m, fmt.Errorf("invalid %s: must not be negative", v.key)
		}
		*v.dst = n
	}

	m.DispatchTimeout, err = parseDuration(getEnv("MATCH_DISPATCH_TIMEOUT", "30s"))
	if err != nil {
		return m, fmt.Errorf("invalid MATCH_DISPATCH_TIMEOUT: %w", err)
	}

	return m, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
