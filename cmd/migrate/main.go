package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"

	"smartmarket/internal/db"
	"smartmarket/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	loadEnvFunc     = godotenv.Load
	connectPostgres = db.ConnectPostgres
)

const usage = "usage: migrate up | down [steps] | status"

// command is a parsed invocation.
type command struct {
	Name  string
	Steps int
}

func main() {
	loadEnvFunc()
	if _, err := logger.Init(); err != nil {
		log.Printf("logger init failed: %v", err)
	}
	defer logger.Sync()

	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := run(context.Background(), os.Getenv("DATABASE_URL"), cmd); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New(usage)
	}
	cmd := command{Name: args[0], Steps: 1}
	switch cmd.Name {
	case "up", "status":
		if len(args) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.Name)
		}
	case "down":
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return command{}, fmt.Errorf("invalid down steps: %q", args[1])
			}
			cmd.Steps = n
		}
	default:
		return command{}, fmt.Errorf("unknown command %q, %s", cmd.Name, usage)
	}
	return cmd, nil
}

func run(ctx context.Context, dsn string, cmd command) error {
	all, err := loadMigrations(migrationsFS)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	pool, err := connectPostgres(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := ensureLedger(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return fmt.Errorf("read applied versions: %w", err)
	}

	switch cmd.Name {
	case "up":
		todo := pending(all, applied)
		for _, m := range todo {
			if err := step(ctx, pool, m, true); err != nil {
				return fmt.Errorf("up: %w", err)
			}
			logger.Info(ctx, "migration applied", zap.String("migration", m.label()))
		}
		logger.Info(ctx, "migrations up complete", zap.Int("applied", len(todo)))
	case "down":
		plan, err := rollbackPlan(all, applied, cmd.Steps)
		if err != nil {
			return fmt.Errorf("down: %w", err)
		}
		for _, m := range plan {
			if err := step(ctx, pool, m, false); err != nil {
				return fmt.Errorf("down: %w", err)
			}
			logger.Info(ctx, "migration rolled back", zap.String("migration", m.label()))
		}
		logger.Info(ctx, "migrations down complete", zap.Int("rolled_back", len(plan)))
	case "status":
		for _, m := range all {
			logger.Info(ctx, "migration",
				zap.String("migration", m.label()),
				zap.Bool("applied", slices.Contains(applied, m.Version)))
		}
	}
	return nil
}
