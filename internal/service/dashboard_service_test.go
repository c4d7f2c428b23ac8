package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/history"
	"smartmarket/internal/pipeline"
)

type countingRunner struct {
	calls int
	last  time.Time
}

func (r *countingRunner) Run(ctx context.Context, now time.Time) *pipeline.Dashboard {
	r.calls++
	r.last = now
	return &pipeline.Dashboard{
		GeneratedAt: now,
		Results: domain.Results{
			"Gold": {Asset: domain.AssetDefinition{Name: "Gold"}, MeanSentiment: 0.2, ArticleCount: 1},
		},
	}
}

var _ Runner = (*countingRunner)(nil)

type brokenHistory struct{ *history.MemoryStore }

func (brokenHistory) Range(context.Context, time.Time, time.Time) ([]domain.HistoryRecord, error) {
	return nil, errors.New("db down")
}

func fixedNow() time.Time { return time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC) }

func TestDashboardService_LatestRunsOnce(t *testing.T) {
	runner := &countingRunner{}
	svc := NewDashboardService(testTracer, runner, history.NewMemoryStore())
	svc.now = fixedNow

	first, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := svc.Latest(context.Background())
	if first != second || runner.calls != 1 {
		t.Fatalf("expected cached dashboard, calls=%d", runner.calls)
	}
	if !runner.last.Equal(fixedNow()) {
		t.Fatalf("unexpected run time %v", runner.last)
	}

	refreshed, _ := svc.Refresh(context.Background())
	if refreshed == first || runner.calls != 2 {
		t.Fatal("refresh should publish a new dashboard")
	}
	latest, _ := svc.Latest(context.Background())
	if latest != refreshed {
		t.Fatal("latest should return refreshed dashboard")
	}
}

type gatedRunner struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (r *gatedRunner) Run(_ context.Context, now time.Time) *pipeline.Dashboard {
	if r.calls.Add(1) == 1 {
		close(r.started)
	}
	<-r.release
	return &pipeline.Dashboard{GeneratedAt: now}
}

func TestDashboardService_ConcurrentColdStartRunsOnce(t *testing.T) {
	runner := &gatedRunner{started: make(chan struct{}), release: make(chan struct{})}
	store := history.NewMemoryStore()
	svc := NewDashboardService(testTracer, runner, store)
	svc.now = fixedNow

	const callers = 8
	results := make([]*pipeline.Dashboard, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.Latest(context.Background())
		}()
	}

	<-runner.started
	time.Sleep(20 * time.Millisecond)
	close(runner.release)
	wg.Wait()

	if n := runner.calls.Load(); n != 1 {
		t.Fatalf("expected a single pipeline run, got %d", n)
	}
	for i, d := range results {
		if d == nil || d != results[0] {
			t.Fatalf("caller %d got a different dashboard", i)
		}
	}
}

func TestDashboardService_RefreshWithoutRunner(t *testing.T) {
	svc := NewDashboardService(testTracer, nil, nil)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error without runner")
	}
	if _, err := svc.History(context.Background(), 10); err == nil {
		t.Fatal("expected error without history store")
	}
	if _, err := svc.Persistence(context.Background(), 10); err == nil {
		t.Fatal("expected error without history store")
	}
}

func TestDashboardService_HistoryLimits(t *testing.T) {
	store := history.NewMemoryStore()
	var records []domain.HistoryRecord
	for i := 0; i < 40; i++ {
		records = append(records, domain.HistoryRecord{
			Date:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Asset:        "Gold",
			Sentiment:    0.1,
			ArticleCount: 1,
			Trend:        domain.TrendNeutral,
		})
	}
	_ = store.Append(context.Background(), records)
	svc := NewDashboardService(testTracer, &countingRunner{}, store)

	got, err := svc.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != DefaultHistoryLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultHistoryLimit, len(got))
	}
	if got[0].Date.Day() != 9 || got[0].Date.Month() != time.February {
		t.Fatalf("expected most recent first, got %v", got[0].Date)
	}
	all, _ := svc.History(context.Background(), 10_000)
	if len(all) != 40 {
		t.Fatalf("expected all 40 rows under the cap, got %d", len(all))
	}
}

func TestDashboardService_PersistenceWindow(t *testing.T) {
	store := history.NewMemoryStore()
	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }
	_ = store.Append(context.Background(), []domain.HistoryRecord{
		{Date: day(1), Asset: "Gold", Sentiment: -0.3, ArticleCount: 1},
		{Date: day(18), Asset: "Gold", Sentiment: 0.2, ArticleCount: 1},
		{Date: day(19), Asset: "Gold", Sentiment: 0.15, ArticleCount: 1},
		{Date: day(20), Asset: "Gold", Sentiment: -0.1, ArticleCount: 1},
		{Date: day(20), Asset: "Silver", Sentiment: 0.1, ArticleCount: 1},
	})
	svc := NewDashboardService(testTracer, &countingRunner{}, store)
	svc.now = fixedNow

	stats, err := svc.Persistence(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 || stats[0].Asset != "Gold" {
		t.Fatalf("expected only gold, got %+v", stats)
	}
	if stats[0].AccuracyPct != 50 || stats[0].SampleDays != 3 {
		t.Fatalf("unexpected gold stat %+v", stats[0])
	}

	all, _ := svc.Persistence(context.Background(), 0)
	if all[0].SampleDays != 4 {
		t.Fatalf("expected full history, got %+v", all[0])
	}

	broken := NewDashboardService(testTracer, nil, brokenHistory{history.NewMemoryStore()})
	if _, err := broken.Persistence(context.Background(), 7); err == nil {
		t.Fatal("expected store error")
	}
}
