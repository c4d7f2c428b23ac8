package job

import (
	"context"
	"time"

	"smartmarket/internal/logger"
	"smartmarket/internal/pipeline"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type DashboardRefresher interface {
	Refresh(ctx context.Context) (*pipeline.Dashboard, error)
}

// Cleaner drops expired entries from an in-process cache.
type Cleaner interface {
	Cleanup() int
}

type RefreshJob struct {
	tracer    trace.Tracer
	refresher DashboardRefresher
	cleaner   Cleaner
	interval  time.Duration
}

func NewRefreshJob(tracer trace.Tracer, refresher DashboardRefresher, cleaner Cleaner, interval time.Duration) *RefreshJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RefreshJob{tracer: tracer, refresher: refresher, cleaner: cleaner, interval: interval}
}

// Start runs one refresh immediately, then every interval until ctx is done.
func (j *RefreshJob) Start(ctx context.Context) {
	if j.refresher == nil {
		logger.Warn(ctx, "refresh job disabled: no refresher")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *RefreshJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "refresh-job.run-once")
	defer span.End()

	if j.cleaner != nil {
		if n := j.cleaner.Cleanup(); n > 0 {
			logger.Debug(ctx, "expired cache entries dropped", zap.Int("entries", n))
		}
	}

	d, err := j.refresher.Refresh(ctx)
	if err != nil {
		logger.Error(ctx, "dashboard refresh failed", err)
		return
	}
	logger.Info(ctx, "dashboard refreshed",
		zap.Int("assets", len(d.Results)),
		zap.Int("articles", d.ArticlesSeen),
		zap.Strings("warnings", d.Warnings),
	)
}
