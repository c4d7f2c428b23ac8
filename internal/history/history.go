package history

import (
	"context"
	"sort"
	"time"

	"smartmarket/internal/domain"
)

// DefaultRecentLimit is the row cap every Store applies to Recent when the
// caller passes limit <= 0.
const DefaultRecentLimit = 30

// Store is the append-only analysis history. Records are never updated or
// deleted here; retention is an operational concern.
type Store interface {
	Append(ctx context.Context, records []domain.HistoryRecord) error
	// Recent returns up to limit records, most recent first. limit <= 0
	// means DefaultRecentLimit.
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	// Range returns records with from <= date <= to in date order. A zero
	// bound leaves that side open.
	Range(ctx context.Context, from, to time.Time) ([]domain.HistoryRecord, error)
}

// Records builds one row per asset present in results. Several runs on the
// same day append several rows.
func Records(date time.Time, results domain.Results, recordedAt time.Time) []domain.HistoryRecord {
	day := Day(date)
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.HistoryRecord, 0, len(names))
	for _, name := range names {
		a := results[name]
		out = append(out, domain.HistoryRecord{
			Date:         day,
			Asset:        name,
			Sentiment:    a.MeanSentiment,
			ArticleCount: a.ArticleCount,
			Trend:        a.Trend,
			RecordedAt:   recordedAt.UTC(),
		})
	}
	return out
}

// Save appends the run's records. An empty result set writes nothing.
func Save(ctx context.Context, store Store, date time.Time, results domain.Results, recordedAt time.Time) error {
	records := Records(date, results, recordedAt)
	if len(records) == 0 {
		return nil
	}
	return store.Append(ctx, records)
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sortRecent orders most-recent-first: by date, then insertion time.
func sortRecent(records []domain.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.After(b.RecordedAt)
		}
		return a.ID > b.ID
	})
}

func sortChronological(records []domain.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.Before(b.RecordedAt)
		}
		return a.ID < b.ID
	})
}
