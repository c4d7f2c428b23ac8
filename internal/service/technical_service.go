package service

import (
	"context"
	"fmt"
	"time"

	"smartmarket/internal/cache"
	"smartmarket/internal/domain"
	"smartmarket/internal/logger"
	"smartmarket/internal/ta"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	technicalsLookbackDays = 120
	technicalsCacheTTL     = 15 * time.Minute
)

type CandleSource interface {
	DailyCandles(ctx context.Context, symbol string, lookbackDays int) ([]domain.Candle, error)
}

// TechnicalService derives indicator snapshots from daily candles and caches
// them per symbol.
type TechnicalService struct {
	tracer  trace.Tracer
	candles CandleSource
	cache   cache.Store
	ttl     time.Duration
	now     func() time.Time
}

func NewTechnicalService(tracer trace.Tracer, candles CandleSource, store cache.Store, ttl time.Duration) *TechnicalService {
	if ttl <= 0 {
		ttl = technicalsCacheTTL
	}
	return &TechnicalService{
		tracer:  tracer,
		candles: candles,
		cache:   store,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Snapshot returns nil, nil when the symbol has fewer closes than the
// indicators need.
func (s *TechnicalService) Snapshot(ctx context.Context, symbol string) (*domain.TechnicalSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "technical-service.snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	key := "technicals:" + symbol
	if s.cache != nil {
		var cached domain.TechnicalSnapshot
		hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			logger.Warn(ctx, "technicals cache read failed", zap.String("symbol", symbol), zap.Error(err))
		}
		if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached, nil
		}
	}

	candles, err := s.candles.DailyCandles(ctx, symbol, technicalsLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("daily candles: %w", err)
	}
	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}

	snap, ok := ta.Technicals(symbol, closes, s.now())
	if !ok {
		logger.Debug(ctx, "not enough closes for technicals", zap.String("symbol", symbol), zap.Int("closes", len(closes)))
		return nil, nil
	}

	if s.cache != nil {
		if err := cache.PutJSON(ctx, s.cache, key, snap, s.ttl); err != nil {
			logger.Warn(ctx, "technicals cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return snap, nil
}
