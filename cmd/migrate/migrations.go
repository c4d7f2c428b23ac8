package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migration pairs the up and down SQL stored as NNNN_name.{up,down}.sql.
type migration struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

func (m migration) label() string { return fmt.Sprintf("%04d_%s", m.Version, m.Name) }

func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		version, name, dir, err := parseMigrationName(path.Base(file))
		if err != nil {
			return nil, err
		}
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("%s is empty", file)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if m.Name != name {
			return nil, fmt.Errorf("version %d has two names: %s and %s", version, m.Name, name)
		}
		target := &m.Up
		if dir == "down" {
			target = &m.Down
		}
		if *target != "" {
			return nil, fmt.Errorf("version %d has two %s files", version, dir)
		}
		*target = body
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("%s needs both up and down files", m.label())
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b migration) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

func parseMigrationName(base string) (int64, string, string, error) {
	stem, ok := strings.CutSuffix(base, ".sql")
	if !ok {
		return 0, "", "", fmt.Errorf("invalid migration filename: %s", base)
	}
	dot := strings.LastIndexByte(stem, '.')
	if dot < 0 {
		return 0, "", "", fmt.Errorf("invalid migration filename: %s", base)
	}
	dir := stem[dot+1:]
	if dir != "up" && dir != "down" {
		return 0, "", "", fmt.Errorf("invalid direction in %s", base)
	}
	num, name, ok := strings.Cut(stem[:dot], "_")
	if !ok || name == "" || strings.IndexFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_')
	}) >= 0 {
		return 0, "", "", fmt.Errorf("invalid migration filename: %s", base)
	}
	version, err := strconv.ParseInt(num, 10, 64)
	if err != nil || version <= 0 {
		return 0, "", "", fmt.Errorf("invalid version in %s", base)
	}
	return version, name, dir, nil
}

// pending returns the migrations not yet applied, oldest first.
func pending(all []migration, applied []int64) []migration {
	var out []migration
	for _, m := range all {
		if !slices.Contains(applied, m.Version) {
			out = append(out, m)
		}
	}
	return out
}

// rollbackPlan picks the newest steps applied versions, newest first.
// Every one of them must still have its source file.
func rollbackPlan(all []migration, applied []int64, steps int) ([]migration, error) {
	if steps <= 0 {
		return nil, errors.New("steps must be > 0")
	}
	newest := slices.Clone(applied)
	slices.Sort(newest)
	slices.Reverse(newest)
	if len(newest) > steps {
		newest = newest[:steps]
	}

	plan := make([]migration, 0, len(newest))
	for _, v := range newest {
		i := slices.IndexFunc(all, func(m migration) bool { return m.Version == v })
		if i < 0 {
			return nil, fmt.Errorf("no source for applied version %d", v)
		}
		plan = append(plan, all[i])
	}
	return plan, nil
}

const ledgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

func ensureLedger(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, ledgerDDL)
	return err
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) ([]int64, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// step runs one migration body and its ledger update in a single transaction.
func step(ctx context.Context, pool *pgxpool.Pool, m migration, up bool) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		body, ledger, args := m.Down, `DELETE FROM schema_migrations WHERE version = $1`, []any{m.Version}
		if up {
			body, ledger, args = m.Up, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, []any{m.Version, m.Name}
		}
		if _, err := tx.Exec(ctx, body); err != nil {
			return fmt.Errorf("%s: %w", m.label(), err)
		}
		if _, err := tx.Exec(ctx, ledger, args...); err != nil {
			return fmt.Errorf("%s ledger: %w", m.label(), err)
		}
		return nil
	})
}
