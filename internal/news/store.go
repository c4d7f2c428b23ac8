package news

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"smartmarket/internal/cache"
	"smartmarket/internal/domain"
	"smartmarket/internal/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type FeedFetcher interface {
	FetchFeed(ctx context.Context, feedURL string, maxItems int) ([]domain.Article, error)
}

type StoreConfig struct {
	MaxItemsPerSource int
	TTL               time.Duration
}

// ArticleStore serves deduplicated articles for a set of feed sources. One
// fetched batch is cached per source set for TTL; a miss refetches inline.
type ArticleStore struct {
	tracer  trace.Tracer
	fetcher FeedFetcher
	cache   cache.Store
	cfg     StoreConfig
}

func NewArticleStore(tracer trace.Tracer, fetcher FeedFetcher, store cache.Store, cfg StoreConfig) *ArticleStore {
	if cfg.MaxItemsPerSource <= 0 {
		cfg.MaxItemsPerSource = 10
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &ArticleStore{tracer: tracer, fetcher: fetcher, cache: store, cfg: cfg}
}

// Articles returns the batch for sources, most recent first. Failing sources
// are skipped and reported in warnings; they never fail the call.
func (s *ArticleStore) Articles(ctx context.Context, sources []string) ([]domain.Article, []string) {
	ctx, span := s.tracer.Start(ctx, "article-store.articles")
	defer span.End()

	var warnings []string
	key := cacheKey(sources)

	var cached []domain.Article
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		logger.Warn(ctx, "article cache read failed", zap.Error(err))
		warnings = append(warnings, "cache:articles: "+err.Error())
	}
	if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("articles.count", len(cached)))
		return cached, warnings
	}

	fetched := make([]domain.Article, 0, len(sources)*s.cfg.MaxItemsPerSource)
	succeeded := 0
	for _, src := range sources {
		items, err := s.fetcher.FetchFeed(ctx, src, s.cfg.MaxItemsPerSource)
		if err != nil {
			logger.Warn(ctx, "feed unavailable", zap.String("feed", src), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("feed:%s: %v", src, err))
			continue
		}
		succeeded++
		if len(items) > s.cfg.MaxItemsPerSource {
			items = items[:s.cfg.MaxItemsPerSource]
		}
		fetched = append(fetched, items...)
	}

	articles := orderByRecency(dedupe(fetched))
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Int("articles.count", len(articles)))

	// A batch where every source failed is not worth holding for a full TTL.
	if succeeded == 0 {
		return articles, warnings
	}
	if err := cache.PutJSON(ctx, s.cache, key, articles, s.cfg.TTL); err != nil {
		logger.Warn(ctx, "article cache write failed", zap.Error(err))
		warnings = append(warnings, "cache:articles: "+err.Error())
	}
	return articles, warnings
}

// cacheKey identifies a source set independent of order.
func cacheKey(sources []string) string {
	sorted := append([]string(nil), sources...)
	sort.Strings(sorted)
	h := sha1.Sum([]byte(strings.Join(sorted, "\n")))
	return "articles:" + hex.EncodeToString(h[:])
}

func dedupe(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		id := strings.TrimSpace(a.Link)
		if id == "" {
			id = "title:" + strings.ToLower(strings.TrimSpace(a.Title))
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, a)
	}
	return out
}

// orderByRecency sorts dated articles newest first; undated ones keep their
// relative order after them.
func orderByRecency(articles []domain.Article) []domain.Article {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].PublishedAt, articles[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return articles
}
