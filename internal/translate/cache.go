package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"smartmarket/internal/cache"
	"smartmarket/internal/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxInputRunes bounds what is sent to a translator.
const MaxInputRunes = 500

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	TargetLang() string
}

// Noop returns its input unchanged.
type Noop struct{ Lang string }

func (n Noop) Translate(_ context.Context, text string) (string, error) { return text, nil }
func (n Noop) TargetLang() string { return n.Lang }

// Cache memoizes translations per target language. Failures fall back to the
// original text and are not stored.
type Cache struct {
	tracer     trace.Tracer
	translator Translator
	store      cache.Store
	ttl        time.Duration
}

func NewCache(tracer trace.Tracer, translator Translator, store cache.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}
	return &Cache{tracer: tracer, translator: translator, store: store, ttl: ttl}
}

func (c *Cache) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	ctx, span := c.tracer.Start(ctx, "translation-cache.translate")
	defer span.End()

	input := truncate(text, MaxInputRunes)
	key := Key(c.translator.TargetLang(), input)

	var cached string
	hit, err := cache.GetJSON(ctx, c.store, key, &cached)
	if err != nil {
		logger.Warn(ctx, "translation cache read failed", zap.Error(err))
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	if hit {
		return cached
	}

	out, err := c.translator.Translate(ctx, input)
	if err != nil || strings.TrimSpace(out) == "" {
		logger.Warn(ctx, "translation failed, keeping original", zap.Error(err))
		return text
	}
	if err := cache.PutJSON(ctx, c.store, key, out, c.ttl); err != nil {
		logger.Warn(ctx, "translation cache write failed", zap.Error(err))
	}
	return out
}

// Key is the cache key for text in lang.
func Key(lang, text string) string {
	h := sha1.Sum([]byte(text))
	return "translation:" + lang + ":" + hex.EncodeToString(h[:])
}

func truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
