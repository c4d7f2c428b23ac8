package app

import (
	"context"
	"fmt"

	"smartmarket/internal/cache"
	"smartmarket/internal/config"
	"smartmarket/internal/db"
	"smartmarket/internal/history"
	"smartmarket/internal/logger"
	"smartmarket/internal/news"
	"smartmarket/internal/pipeline"
	"smartmarket/internal/provider"
	"smartmarket/internal/recommend"
	"smartmarket/internal/sentiment"
	"smartmarket/internal/service"
	"smartmarket/internal/translate"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	connectRedis    = cache.ConnectRedis
	connectPostgres = db.ConnectPostgres
	openSQLite      = history.OpenSQLite
)

// App is the assembled analysis stack shared by the server and the CLI.
type App struct {
	Dashboards *service.DashboardService
	History    history.Store
	Cache      cache.Store
	// Cleaner is set when the cache is in-process.
	Cleaner *cache.MemoryStore

	closers []func()
}

// Build connects the configured backends and wires the pipeline. A Redis
// failure degrades to the in-memory cache; a history backend failure is fatal
// to the caller.
func Build(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (*App, error) {
	a := &App{}

	if err := a.initCache(ctx, cfg); err != nil {
		return nil, err
	}
	if err := a.initHistory(ctx, cfg, tracer); err != nil {
		a.Close()
		return nil, err
	}

	deps := pipeline.Deps{
		Articles: news.NewArticleStore(tracer, provider.NewRSSProvider(tracer), a.Cache, news.StoreConfig{
			MaxItemsPerSource: cfg.FeedMaxItems,
			TTL:               cfg.ArticleCacheTTL,
		}),
		Classifier:  news.NewKeywordClassifier(),
		Aggregator:  sentiment.NewAggregator(sentiment.NewLexiconScorer(), sentiment.RecencyPolicy{HalfLife: cfg.RecencyHalfLife}),
		Recommender: recommend.NewEngine(),
		History:     a.History,
	}
	if cfg.TechnicalsEnabled {
		deps.Technicals = service.NewTechnicalService(tracer, provider.NewYahooProvider(tracer), a.Cache, cfg.TechnicalsCacheTTL)
	}
	if tr := newTranslator(cfg, tracer); tr != nil {
		deps.Translator = translate.NewCache(tracer, tr, a.Cache, cfg.TranslationCacheTTL)
	}

	p, err := pipeline.New(tracer, deps, pipeline.Config{
		Assets:            cfg.Assets(),
		Feeds:             append([]string(nil), cfg.Catalog.Feeds...),
		HeadlinesPerAsset: cfg.HeadlinesPerAsset,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Dashboards = service.NewDashboardService(tracer, p, a.History)
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) initCache(ctx context.Context, cfg *config.Config) error {
	if cfg.CacheBackend == "redis" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err == nil {
			a.Cache = cache.NewRedisStore(client, "smartmarket:")
			a.closers = append(a.closers, func() { client.Close() })
			logger.Info(ctx, "cache backend ready", zap.String("backend", "redis"))
			return nil
		}
		logger.Warn(ctx, "redis unavailable, using in-memory cache", zap.Error(err))
	}
	mem := cache.NewMemoryStore()
	a.Cache = mem
	a.Cleaner = mem
	return nil
}

func (a *App) initHistory(ctx context.Context, cfg *config.Config, tracer trace.Tracer) error {
	switch cfg.HistoryBackend {
	case "postgres":
		pool, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("history backend: %w", err)
		}
		a.History = history.NewPostgresStore(pool, tracer)
		a.closers = append(a.closers, pool.Close)
	case "memory":
		a.History = history.NewMemoryStore()
	default:
		store, err := openSQLite(cfg.SQLitePath, tracer)
		if err != nil {
			return fmt.Errorf("history backend: %w", err)
		}
		a.History = store
		a.closers = append(a.closers, func() { store.Close() })
	}
	logger.Info(ctx, "history backend ready", zap.String("backend", cfg.HistoryBackend))
	return nil
}

func newTranslator(cfg *config.Config, tracer trace.Tracer) translate.Translator {
	switch cfg.TranslateProvider {
	case "google":
		return provider.NewGoogleTranslator(tracer, cfg.TranslateSourceLang, cfg.TranslateTargetLang)
	case "openai":
		return provider.NewOpenAITranslator(tracer, provider.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel,
			cfg.TranslateSourceLang, cfg.TranslateTargetLang)
	}
	return nil
}
