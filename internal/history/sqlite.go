package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smartmarket/internal/domain"

	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/trace"
)

const (
	dateLayout = "2006-01-02"

	// fixed width so that text order matches time order
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// SQLiteStore is the single-file history backend for local and CLI use.
type SQLiteStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

func OpenSQLite(path string, tracer trace.Tracer) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, tracer: tracer}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS analysis_history (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    date          TEXT NOT NULL,
    asset         TEXT NOT NULL,
    sentiment     REAL NOT NULL,
    article_count INTEGER NOT NULL,
    trend         TEXT NOT NULL,
    recorded_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_history_date ON analysis_history(date);
CREATE INDEX IF NOT EXISTS idx_analysis_history_asset_date ON analysis_history(asset, date);`)
	if err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, records []domain.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "history-sqlite.append")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO analysis_history (date, asset, sentiment, article_count, trend, recorded_at)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			Day(r.Date).Format(dateLayout),
			r.Asset,
			r.Sentiment,
			r.ArticleCount,
			string(r.Trend),
			r.RecordedAt.UTC().Format(timestampLayout),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert analysis history: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "history-sqlite.recent")
	defer span.End()

	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, date, asset, sentiment, article_count, trend, recorded_at
FROM analysis_history
ORDER BY date DESC, recorded_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLRows(rows)
}

func (s *SQLiteStore) Range(ctx context.Context, from, to time.Time) ([]domain.HistoryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "history-sqlite.range")
	defer span.End()

	lower, upper := "0000-01-01", "9999-12-31"
	if !from.IsZero() {
		lower = Day(from).Format(dateLayout)
	}
	if !to.IsZero() {
		upper = Day(to).Format(dateLayout)
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, date, asset, sentiment, article_count, trend, recorded_at
FROM analysis_history
WHERE date >= ? AND date <= ?
ORDER BY date ASC, recorded_at ASC, id ASC`, lower, upper)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLRows(rows)
}

func scanSQLRows(rows *sql.Rows) ([]domain.HistoryRecord, error) {
	var out []domain.HistoryRecord
	for rows.Next() {
		var r domain.HistoryRecord
		var date, trend, recordedAt string
		if err := rows.Scan(&r.ID, &date, &r.Asset, &r.Sentiment, &r.ArticleCount, &trend, &recordedAt); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		ts, err := time.Parse(timestampLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		r.Date = d
		r.RecordedAt = ts
		r.Trend = domain.Trend(trend)
		out = append(out, r)
	}
	return out, rows.Err()
}
