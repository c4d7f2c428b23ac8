package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"smartmarket/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestGetHistory(t *testing.T) {
	stub := &dashboardStub{records: []domain.HistoryRecord{
		{ID: 2, Date: time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), Asset: "Gold", Sentiment: 0.12, ArticleCount: 4, Trend: domain.TrendBullish},
	}}
	r := newTestRouter(New(trace.NewNoopTracerProvider().Tracer("handler-test"), stub, ""))

	w := get(r, http.MethodGet, "/api/history?limit=5")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.lastLimit != 5 {
		t.Fatalf("expected limit 5 forwarded, got %d", stub.lastLimit)
	}
	var body struct {
		Count   int `json:"count"`
		Records []struct {
			Asset string `json:"asset"`
			Trend string `json:"trend"`
		} `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Count != 1 || body.Records[0].Trend != "Bullish" {
		t.Fatalf("unexpected body %+v", body)
	}

	if w := get(r, http.MethodGet, "/api/history?limit=abc"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := get(r, http.MethodGet, "/api/history?limit=-1"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetPersistence(t *testing.T) {
	stub := &dashboardStub{stats: []domain.PersistenceStat{{Asset: "Gold", AccuracyPct: 50, SampleDays: 3, MeanSentiment: 0.083}}}
	r := newTestRouter(New(trace.NewNoopTracerProvider().Tracer("handler-test"), stub, ""))

	w := get(r, http.MethodGet, "/api/history/persistence?days=7")
	if w.Code != http.StatusOK || stub.lastDays != 7 {
		t.Fatalf("unexpected response %d days=%d", w.Code, stub.lastDays)
	}
	var body struct {
		Metric string                   `json:"metric"`
		Stats  []domain.PersistenceStat `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Metric != "sentiment_persistence" || body.Stats[0].AccuracyPct != 50 {
		t.Fatalf("unexpected body %+v", body)
	}

	stub.historyErr = errors.New("db down")
	if w := get(r, http.MethodGet, "/api/history/persistence"); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
