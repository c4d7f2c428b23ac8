package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"smartmarket/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "CACHE_BACKEND", "HISTORY_BACKEND", "SQLITE_PATH", "FEED_MAX_ITEMS",
		"ARTICLE_CACHE_TTL_SECS", "TRANSLATE_PROVIDER", "TRANSLATE_TARGET_LANG", "ASSETS_FILE",
		"SENTIMENT_RECENCY_HALFLIFE_HOURS", "TECHNICALS_ENABLED", "REFRESH_INTERVAL_MINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %s", cfg.HTTPAddr)
	}
	if cfg.CacheBackend != "memory" || cfg.HistoryBackend != "sqlite" {
		t.Fatalf("unexpected backends: cache=%s history=%s", cfg.CacheBackend, cfg.HistoryBackend)
	}
	if cfg.FeedMaxItems != 10 {
		t.Fatalf("expected default feed cap 10, got %d", cfg.FeedMaxItems)
	}
	if cfg.ArticleCacheTTL != time.Hour {
		t.Fatalf("expected article ttl 1h, got %s", cfg.ArticleCacheTTL)
	}
	if cfg.TranslateProvider != "google" || cfg.TranslateTargetLang != "th" {
		t.Fatalf("unexpected translation defaults: %s %s", cfg.TranslateProvider, cfg.TranslateTargetLang)
	}
	if cfg.RecencyHalfLife != 0 {
		t.Fatalf("recency weighting should be off by default, got %s", cfg.RecencyHalfLife)
	}
	if !cfg.TechnicalsEnabled {
		t.Fatal("technicals should be enabled by default")
	}
	if len(cfg.Assets()) != 3 || len(cfg.Catalog.Feeds) != 3 {
		t.Fatalf("expected built-in catalog, got %+v", cfg.Catalog)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")
	t.Setenv("HISTORY_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("FEED_MAX_ITEMS", "8")
	t.Setenv("SENTIMENT_RECENCY_HALFLIFE_HOURS", "12")
	t.Setenv("TECHNICALS_ENABLED", "false")
	t.Setenv("ASSETS_FILE", "")

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.HistoryBackend != "postgres" {
		t.Fatalf("expected postgres history, got %s", cfg.HistoryBackend)
	}
	if cfg.FeedMaxItems != 8 {
		t.Fatalf("expected feed cap 8, got %d", cfg.FeedMaxItems)
	}
	if cfg.RecencyHalfLife != 12*time.Hour {
		t.Fatalf("expected 12h half life, got %s", cfg.RecencyHalfLife)
	}
	if cfg.TechnicalsEnabled {
		t.Fatal("technicals should be disabled")
	}

	t.Setenv("FEED_MAX_ITEMS", "bad")
	t.Setenv("HISTORY_BACKEND", "mongo")
	cfg = Load()
	if cfg.FeedMaxItems != 10 {
		t.Fatalf("invalid feed cap should fall back to default, got %d", cfg.FeedMaxItems)
	}
	if cfg.HistoryBackend != "sqlite" {
		t.Fatalf("unsupported backend should fall back to sqlite, got %s", cfg.HistoryBackend)
	}
}

func TestLoadPostgresWithoutURLFallsBack(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	if cfg := Load(); cfg.HistoryBackend != "sqlite" {
		t.Fatalf("expected sqlite fallback, got %s", cfg.HistoryBackend)
	}
}

func TestAssetsReturnsCopy(t *testing.T) {
	t.Setenv("ASSETS_FILE", "")
	cfg := Load()

	assets := cfg.Assets()
	assets[0].Keywords[0] = "mutated"
	if cfg.Assets()[0].Keywords[0] != "gold" {
		t.Fatal("catalog keywords must not be mutable through Assets()")
	}
}

func TestParseCatalogNormalizesKeywords(t *testing.T) {
	c, err := ParseCatalog([]byte(`
assets:
  - name: Gold
    symbol: GC=F
    keywords: ["GOLD", " Bullion ", "gold", ""]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.Assets[0].Keywords
	if len(got) != 2 || got[0] != "gold" || got[1] != "bullion" {
		t.Fatalf("unexpected keywords %v", got)
	}
	if len(c.Feeds) != 3 {
		t.Fatalf("missing feeds should default, got %v", c.Feeds)
	}
}

func TestParseCatalogRejectsEmptyKeywords(t *testing.T) {
	_, err := ParseCatalog([]byte(`
assets:
  - name: Platinum
    keywords: ["  "]
`))
	if !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	_, err := ParseCatalog([]byte(`
assets:
  - name: Gold
    keywords: [gold]
  - name: Gold
    keywords: [xau]
`))
	if !errors.Is(err, ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	content := "assets:\n  - name: Oil\n    keywords: [oil, brent]\nfeeds:\n  - https://example.com/rss\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Assets) != 1 || c.Assets[0].Name != "Oil" || len(c.Feeds) != 1 {
		t.Fatalf("unexpected catalog %+v", c)
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWarnsThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("HISTORY_BACKEND", "memory")
	t.Setenv("TRANSLATE_PROVIDER", "none")
	t.Setenv("ASSETS_FILE", "")

	cfg := Load()
	if cfg.CacheBackend != "memory" {
		t.Fatalf("expected fallback to memory, got %s", cfg.CacheBackend)
	}

	entries := logs.FilterMessage("unsupported CACHE_BACKEND, defaulting to memory").All()
	if len(entries) != 1 {
		t.Fatalf("expected one cache backend warning, got %d of %d entries", len(entries), logs.Len())
	}
	if entries[0].ContextMap()["value"] != "memcached" {
		t.Fatalf("unexpected fields %v", entries[0].ContextMap())
	}
}
