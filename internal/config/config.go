package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/logger"

	"go.uber.org/zap"
)

// Config is built once at startup and passed by value or pointer into each
// component. Nothing reads configuration from the environment after Load.
type Config struct {
	HTTPAddr string
	APIKey   string

	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string

	CacheBackend   string
	HistoryBackend string
	SQLitePath     string

	FeedMaxItems        int
	ArticleCacheTTL     time.Duration
	TranslationCacheTTL time.Duration
	TechnicalsCacheTTL  time.Duration

	TranslateProvider   string
	TranslateSourceLang string
	TranslateTargetLang string
	OpenAIAPIKey        string
	OpenAIModel         string

	TechnicalsEnabled bool
	RecencyHalfLife   time.Duration
	HeadlinesPerAsset int
	RefreshInterval   time.Duration

	Catalog Catalog
}

func Load() *Config {
	ctx := context.Background()
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
	}

	cfg.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.TelegramBotToken == "" {
		logger.Warn(ctx, "TELEGRAM_BOT_TOKEN not set")
	}

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "memory"
	}
	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		logger.Warn(ctx, "unsupported CACHE_BACKEND, defaulting to memory", zap.String("value", cfg.CacheBackend))
		cfg.CacheBackend = "memory"
	}
	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		logger.Warn(ctx, "REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.HistoryBackend = strings.ToLower(strings.TrimSpace(os.Getenv("HISTORY_BACKEND")))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = "sqlite"
	}
	switch cfg.HistoryBackend {
	case "sqlite", "postgres", "memory":
	default:
		logger.Warn(ctx, "unsupported HISTORY_BACKEND, defaulting to sqlite", zap.String("value", cfg.HistoryBackend))
		cfg.HistoryBackend = "sqlite"
	}
	if cfg.HistoryBackend == "postgres" && cfg.DatabaseURL == "" {
		logger.Warn(ctx, "DATABASE_URL not set, history falls back to sqlite")
		cfg.HistoryBackend = "sqlite"
	}

	cfg.SQLitePath = strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "data/smartmarket.db"
	}

	cfg.FeedMaxItems = envInt("FEED_MAX_ITEMS", 10)
	cfg.ArticleCacheTTL = time.Duration(envInt("ARTICLE_CACHE_TTL_SECS", 3600)) * time.Second
	cfg.TranslationCacheTTL = time.Duration(envInt("TRANSLATION_CACHE_TTL_SECS", 86400)) * time.Second
	cfg.TechnicalsCacheTTL = time.Duration(envInt("TECHNICALS_CACHE_TTL_SECS", 900)) * time.Second

	cfg.TranslateProvider = strings.ToLower(strings.TrimSpace(os.Getenv("TRANSLATE_PROVIDER")))
	if cfg.TranslateProvider == "" {
		cfg.TranslateProvider = "google"
	}
	switch cfg.TranslateProvider {
	case "google", "openai", "none":
	default:
		logger.Warn(ctx, "unsupported TRANSLATE_PROVIDER, defaulting to google", zap.String("value", cfg.TranslateProvider))
		cfg.TranslateProvider = "google"
	}

	cfg.TranslateSourceLang = envString("TRANSLATE_SOURCE_LANG", "en")
	cfg.TranslateTargetLang = envString("TRANSLATE_TARGET_LANG", "th")

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = envString("OPENAI_MODEL", "gpt-4o-mini")
	if cfg.TranslateProvider == "openai" && cfg.OpenAIAPIKey == "" {
		logger.Warn(ctx, "OPENAI_API_KEY not set, translation disabled")
		cfg.TranslateProvider = "none"
	}

	cfg.TechnicalsEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TECHNICALS_ENABLED")), "false")

	cfg.RecencyHalfLife = 0
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_RECENCY_HALFLIFE_HOURS")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			cfg.RecencyHalfLife = time.Duration(n * float64(time.Hour))
		}
	}

	cfg.HeadlinesPerAsset = envInt("HEADLINES_PER_ASSET", 3)
	cfg.RefreshInterval = time.Duration(envInt("REFRESH_INTERVAL_MINS", 60)) * time.Minute

	catalog, err := LoadCatalog(strings.TrimSpace(os.Getenv("ASSETS_FILE")))
	if err != nil {
		logger.Warn(ctx, "asset catalog rejected, using built-in catalog", zap.Error(err))
		catalog = DefaultCatalog()
	}
	cfg.Catalog = catalog

	return cfg
}

// Assets returns a copy of the configured asset definitions in catalog order.
func (c *Config) Assets() []domain.AssetDefinition {
	out := make([]domain.AssetDefinition, len(c.Catalog.Assets))
	for i, a := range c.Catalog.Assets {
		a.Keywords = append([]string(nil), a.Keywords...)
		out[i] = a
	}
	return out
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
