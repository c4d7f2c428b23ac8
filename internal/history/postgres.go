package history

import (
	"context"
	"fmt"
	"time"

	"smartmarket/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresStore persists history in the analysis_history table created by
// cmd/migrate.
type PostgresStore struct {
	pool   pool
	tracer trace.Tracer
}

func NewPostgresStore(pool pool, tracer trace.Tracer) *PostgresStore {
	return &PostgresStore{pool: pool, tracer: tracer}
}

func (s *PostgresStore) Append(ctx context.Context, records []domain.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "history-repo.append")
	defer span.End()
	span.SetAttributes(attribute.Int("history.records", len(records)))

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
INSERT INTO analysis_history (date, asset, sentiment, article_count, trend, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
			Day(r.Date), r.Asset, r.Sentiment, r.ArticleCount, string(r.Trend), r.RecordedAt.UTC(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert analysis history: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "history-repo.recent")
	defer span.End()

	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, date, asset, sentiment, article_count, trend, recorded_at
FROM analysis_history
ORDER BY date DESC, recorded_at DESC, id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *PostgresStore) Range(ctx context.Context, from, to time.Time) ([]domain.HistoryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "history-repo.range")
	defer span.End()

	rows, err := s.pool.Query(ctx, `
SELECT id, date, asset, sentiment, article_count, trend, recorded_at
FROM analysis_history
WHERE ($1::date IS NULL OR date >= $1::date)
  AND ($2::date IS NULL OR date <= $2::date)
ORDER BY date ASC, recorded_at ASC, id ASC`, nullDay(from), nullDay(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]domain.HistoryRecord, error) {
	var out []domain.HistoryRecord
	for rows.Next() {
		var r domain.HistoryRecord
		var trend string
		if err := rows.Scan(&r.ID, &r.Date, &r.Asset, &r.Sentiment, &r.ArticleCount, &trend, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Trend = domain.Trend(trend)
		r.Date = Day(r.Date)
		r.RecordedAt = r.RecordedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullDay(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return Day(t)
}
