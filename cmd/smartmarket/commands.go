package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"smartmarket/internal/app"
	"smartmarket/internal/config"
	"smartmarket/internal/domain"
	"smartmarket/internal/logger"
	"smartmarket/internal/pipeline"
	"smartmarket/internal/render"
	"smartmarket/pkg/tracing"

	"github.com/spf13/cobra"
)

// dashboards is what the commands need from the assembled stack.
type dashboards interface {
	Refresh(ctx context.Context) (*pipeline.Dashboard, error)
	History(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Persistence(ctx context.Context, days int) ([]domain.PersistenceStat, error)
}

// deps opens the stack for one command and returns a release func.
type deps struct {
	open func(ctx context.Context) (dashboards, func(), error)
}

func defaultDeps() deps {
	return deps{open: func(ctx context.Context) (dashboards, func(), error) {
		cfg := config.Load()
		tp, tracer, err := tracing.InitTracer(ctx, "smartmarket-cli")
		if err != nil {
			return nil, nil, fmt.Errorf("init tracer: %w", err)
		}
		a, err := app.Build(ctx, cfg, tracer)
		if err != nil {
			tp.Shutdown(ctx)
			return nil, nil, err
		}
		return a.Dashboards, func() {
			a.Close()
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error(context.Background(), "tracer provider shutdown", err)
			}
		}, nil
	}}
}

func newRootCmd(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "smartmarket",
		Short: "News sentiment dashboard for gold, silver and bitcoin",
		Long: `smartmarket scores recent market headlines per asset, labels the trend,
suggests a heuristic action and keeps a daily history of the results.
Recommendations are rule-based and are not a validated trading signal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := logger.Init(); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.AddCommand(newRunCmd(d))
	root.AddCommand(newHistoryCmd(d))
	root.AddCommand(newPersistenceCmd(d))
	return root
}

func newRunCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch feeds, analyse every asset and print a view",
		Example: `  smartmarket run
  smartmarket run --view comparison`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, _ := cmd.Flags().GetString("view")
			view = strings.ToLower(view)
			printer, ok := viewPrinters[view]
			if !ok {
				return fmt.Errorf("unknown view %q (summary, full, comparison)", view)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			svc, release, err := d.open(ctx)
			if err != nil {
				return err
			}
			defer release()

			dash, err := svc.Refresh(ctx)
			if err != nil {
				return err
			}
			printer(cmd.OutOrStdout(), dash)
			return nil
		},
	}
	cmd.Flags().String("view", "summary", "summary, full or comparison")
	return cmd
}

func newHistoryCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analyses, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			svc, release, err := d.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			records, err := svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			render.History(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().Int("limit", 30, "number of rows (max 500)")
	return cmd
}

func newPersistenceCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persistence",
		Short: "Show how often each asset's sentiment kept its sign day over day",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			if days < 0 {
				return fmt.Errorf("--days must be >= 0")
			}
			svc, release, err := d.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			stats, err := svc.Persistence(cmd.Context(), days)
			if err != nil {
				return err
			}
			render.Persistence(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().Int("days", 0, "window in days (0 = all history)")
	return cmd
}

var viewPrinters = map[string]func(io.Writer, *pipeline.Dashboard){
	"summary":    render.Summary,
	"full":       render.Full,
	"comparison": render.Comparison,
}
