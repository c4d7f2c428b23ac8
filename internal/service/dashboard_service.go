package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/history"
	"smartmarket/internal/pipeline"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Runner interface {
	Run(ctx context.Context, now time.Time) *pipeline.Dashboard
}

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 500
)

// DashboardService keeps the latest run and answers history queries. Runs are
// serialised so a manual refresh never overlaps the scheduled one.
type DashboardService struct {
	tracer  trace.Tracer
	runner  Runner
	history history.Store
	now     func() time.Time

	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *pipeline.Dashboard
}

func NewDashboardService(tracer trace.Tracer, runner Runner, store history.Store) *DashboardService {
	return &DashboardService{
		tracer:  tracer,
		runner:  runner,
		history: store,
		now:     time.Now,
	}
}

// Refresh runs the pipeline and publishes the result as the latest dashboard.
func (s *DashboardService) Refresh(ctx context.Context) (*pipeline.Dashboard, error) {
	return s.run(ctx, false)
}

// Latest returns the last published dashboard, running once if there is none.
func (s *DashboardService) Latest(ctx context.Context) (*pipeline.Dashboard, error) {
	if d := s.published(); d != nil {
		return d, nil
	}
	return s.run(ctx, true)
}

func (s *DashboardService) published() *pipeline.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// run executes the pipeline under runMu. With reuse set, a dashboard
// published while waiting for the lock is returned instead of running again.
func (s *DashboardService) run(ctx context.Context, reuse bool) (*pipeline.Dashboard, error) {
	if s == nil || s.runner == nil {
		return nil, fmt.Errorf("dashboard pipeline is not initialized")
	}
	ctx, span := s.tracer.Start(ctx, "dashboard-service.refresh")
	defer span.End()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	if reuse {
		if d := s.published(); d != nil {
			span.SetAttributes(attribute.Bool("reused", true))
			return d, nil
		}
	}

	d := s.runner.Run(ctx, s.now().UTC())
	span.SetAttributes(attribute.Int("assets.present", len(d.Results)))

	s.mu.Lock()
	s.latest = d
	s.mu.Unlock()
	return d, nil
}

func (s *DashboardService) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.history")
	defer span.End()

	if s.history == nil {
		return nil, fmt.Errorf("history store is not configured")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.history.Recent(ctx, limit)
}

// Persistence computes sentiment sign persistence over the last days calendar
// days. days <= 0 uses the whole history.
func (s *DashboardService) Persistence(ctx context.Context, days int) ([]domain.PersistenceStat, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard-service.persistence")
	defer span.End()

	if s.history == nil {
		return nil, fmt.Errorf("history store is not configured")
	}
	var from time.Time
	if days > 0 {
		from = history.Day(s.now()).AddDate(0, 0, -(days - 1))
	}
	records, err := s.history.Range(ctx, from, time.Time{})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return history.SortedStats(history.SentimentPersistence(records)), nil
}
