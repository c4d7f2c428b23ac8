package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"smartmarket/internal/cache"
	"smartmarket/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type mockCandles struct {
	candles []domain.Candle
	err     error
	calls   int
	symbol  string
	days    int
}

func (m *mockCandles) DailyCandles(ctx context.Context, symbol string, lookbackDays int) ([]domain.Candle, error) {
	m.calls++
	m.symbol = symbol
	m.days = lookbackDays
	if m.err != nil {
		return nil, m.err
	}
	return m.candles, nil
}

var _ CandleSource = (*mockCandles)(nil)

func risingCandles(n int) []domain.Candle {
	out := make([]domain.Candle, n)
	for i := range out {
		out[i] = domain.Candle{Symbol: "GC=F", Close: 2000 + float64(i)}
	}
	return out
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func TestTechnicalService_SnapshotCachesInRedis(t *testing.T) {
	t.Parallel()

	rdb := newFakeRedis()
	candles := &mockCandles{candles: risingCandles(60)}
	svc := NewTechnicalService(testTracer, candles, cache.NewRedisStore(rdb, "smartmarket:"), 0)

	got, err := svc.Snapshot(context.Background(), "GC=F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Trend != domain.TechnicalUp || got.Price != 2059 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	if candles.symbol != "GC=F" || candles.days != technicalsLookbackDays {
		t.Fatalf("unexpected candle request %s/%d", candles.symbol, candles.days)
	}
	if _, ok := rdb.data["smartmarket:technicals:GC=F"]; !ok {
		t.Fatal("snapshot not cached")
	}

	again, err := svc.Snapshot(context.Background(), "GC=F")
	if err != nil || again.Price != got.Price {
		t.Fatalf("expected cached snapshot, got %+v err=%v", again, err)
	}
	if candles.calls != 1 {
		t.Fatalf("expected 1 candle fetch, got %d", candles.calls)
	}
}

func TestTechnicalService_SnapshotInsufficientData(t *testing.T) {
	t.Parallel()

	svc := NewTechnicalService(testTracer, &mockCandles{candles: risingCandles(30)}, cache.NewMemoryStore(), 0)
	got, err := svc.Snapshot(context.Background(), "BTC-USD")
	if err != nil || got != nil {
		t.Fatalf("expected absent snapshot, got %+v err=%v", got, err)
	}
}

func TestTechnicalService_SnapshotFetchError(t *testing.T) {
	t.Parallel()

	svc := NewTechnicalService(testTracer, &mockCandles{err: errors.New("404")}, nil, 0)
	if _, err := svc.Snapshot(context.Background(), "SI=F"); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestTechnicalService_CacheReadErrorFallsThrough(t *testing.T) {
	t.Parallel()

	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	candles := &mockCandles{candles: risingCandles(55)}
	svc := NewTechnicalService(testTracer, candles, cache.NewRedisStore(rdb, ""), time.Minute)

	got, err := svc.Snapshot(context.Background(), "GC=F")
	if err != nil || got == nil {
		t.Fatalf("expected live snapshot, got %+v err=%v", got, err)
	}
}
