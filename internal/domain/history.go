package domain

import "time"

// HistoryRecord is one persisted row of the append-only analysis history.
type HistoryRecord struct {
	ID           int64     `json:"id,omitempty"`
	Date         time.Time `json:"date"`
	Asset        string    `json:"asset"`
	Sentiment    float64   `json:"sentiment"`
	ArticleCount int       `json:"article_count"`
	Trend        Trend     `json:"trend"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// PersistenceStat reports how often an asset's daily sentiment sign carried
// over to the next recorded day. It says nothing about price direction.
type PersistenceStat struct {
	Asset         string  `json:"asset"`
	AccuracyPct   float64 `json:"accuracy_pct"`
	SampleDays    int     `json:"sample_days"`
	MeanSentiment float64 `json:"mean_sentiment"`
}
