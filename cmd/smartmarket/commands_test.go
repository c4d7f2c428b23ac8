package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/pipeline"
)

type stubDashboards struct {
	refreshes int
	limit     int
	days      int
}

func (s *stubDashboards) Refresh(context.Context) (*pipeline.Dashboard, error) {
	s.refreshes++
	gold := domain.AssetDefinition{Name: "Gold", Label: "Gold"}
	return &pipeline.Dashboard{
		GeneratedAt: time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC),
		Assets:      []domain.AssetDefinition{gold},
		Results: domain.Results{
			"Gold": {Asset: gold, MeanSentiment: 0.3, Trend: domain.TrendBullish, ArticleCount: 6, ConfidenceTier: domain.ConfidenceHigh},
		},
	}, nil
}

func (s *stubDashboards) History(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	s.limit = limit
	return []domain.HistoryRecord{{Date: time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), Asset: "Gold", Trend: domain.TrendBullish, Sentiment: 0.3, ArticleCount: 6}}, nil
}

func (s *stubDashboards) Persistence(_ context.Context, days int) ([]domain.PersistenceStat, error) {
	s.days = days
	return []domain.PersistenceStat{{Asset: "Gold", AccuracyPct: 75, SampleDays: 5}}, nil
}

func stubDeps(svc *stubDashboards, releases *int) deps {
	return deps{open: func(context.Context) (dashboards, func(), error) {
		return svc, func() { *releases++ }, nil
	}}
}

func execute(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	var out bytes.Buffer
	root := newRootCmd(d)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommandViews(t *testing.T) {
	svc := &stubDashboards{}
	releases := 0

	out, err := execute(t, stubDeps(svc, &releases), "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Market sentiment") || !strings.Contains(out, "0.300") {
		t.Fatalf("unexpected summary output:\n%s", out)
	}

	out, err = execute(t, stubDeps(svc, &releases), "run", "--view", "COMPARISON")
	if err != nil || !strings.Contains(out, "Asset comparison") {
		t.Fatalf("unexpected comparison output (err=%v):\n%s", err, out)
	}
	if svc.refreshes != 2 || releases != 2 {
		t.Fatalf("expected 2 refreshes and releases, got %d/%d", svc.refreshes, releases)
	}

	if _, err := execute(t, stubDeps(svc, &releases), "run", "--view", "chart"); err == nil {
		t.Fatal("expected unknown view error")
	}
}

func TestHistoryAndPersistenceCommands(t *testing.T) {
	svc := &stubDashboards{}
	releases := 0

	out, err := execute(t, stubDeps(svc, &releases), "history", "--limit", "7")
	if err != nil || svc.limit != 7 || !strings.Contains(out, "2026-02-12") {
		t.Fatalf("unexpected history run (limit=%d err=%v):\n%s", svc.limit, err, out)
	}

	out, err = execute(t, stubDeps(svc, &releases), "persistence", "--days", "14")
	if err != nil || svc.days != 14 || !strings.Contains(out, "75.0%") {
		t.Fatalf("unexpected persistence run (days=%d err=%v):\n%s", svc.days, err, out)
	}

	if _, err := execute(t, stubDeps(svc, &releases), "persistence", "--days", "-1"); err == nil {
		t.Fatal("expected negative days to fail")
	}
}

func TestOpenFailure(t *testing.T) {
	d := deps{open: func(context.Context) (dashboards, func(), error) {
		return nil, nil, errors.New("sqlite locked")
	}}
	if _, err := execute(t, d, "history"); err == nil || !strings.Contains(err.Error(), "sqlite locked") {
		t.Fatalf("expected open error, got %v", err)
	}
}
