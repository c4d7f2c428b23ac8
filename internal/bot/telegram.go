package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/logger"
	"smartmarket/internal/pipeline"

	tele "gopkg.in/telebot.v3"
)

type DashboardService interface {
	Latest(ctx context.Context) (*pipeline.Dashboard, error)
	History(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Persistence(ctx context.Context, days int) ([]domain.PersistenceStat, error)
}

const defaultHistoryRows = 10

func StartTelegramBot(token string, dashboards DashboardService) {
	if token == "" {
		logger.Info(context.Background(), "TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		logger.Error(context.Background(), "telegram bot disabled", err)
		return
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/trend", func(c tele.Context) error {
		return c.Send(trendReply(context.Background(), dashboards, c.Args()))
	})

	b.Handle("/history", func(c tele.Context) error {
		return c.Send(historyReply(context.Background(), dashboards, c.Args()))
	})

	b.Handle("/persistence", func(c tele.Context) error {
		return c.Send(persistenceReply(context.Background(), dashboards))
	})

	logger.Info(context.Background(), "telegram bot started")
	go b.Start()
}

func trendReply(ctx context.Context, dashboards DashboardService, args []string) string {
	d, err := dashboards.Latest(ctx)
	if err != nil {
		return fmt.Sprintf("Error loading dashboard: %v", err)
	}
	if len(args) == 0 {
		return formatSummary(d)
	}
	name := strings.Join(args, " ")
	entry, ok := d.Entry(canonicalAsset(d, name))
	if !ok {
		return fmt.Sprintf("No analysis for %s\nTracked: %s", name, strings.Join(assetNames(d), ", "))
	}
	return formatEntry(entry)
}

func historyReply(ctx context.Context, dashboards DashboardService, args []string) string {
	limit := defaultHistoryRows
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "Usage: /history 10"
		}
		limit = n
	}
	records, err := dashboards.History(ctx, limit)
	if err != nil {
		return fmt.Sprintf("Error loading history: %v", err)
	}
	return formatHistory(records)
}

func persistenceReply(ctx context.Context, dashboards DashboardService) string {
	stats, err := dashboards.Persistence(ctx, 0)
	if err != nil {
		return fmt.Sprintf("Error loading history: %v", err)
	}
	return formatPersistence(stats)
}

// canonicalAsset matches a user-typed name case-insensitively.
func canonicalAsset(d *pipeline.Dashboard, name string) string {
	for _, a := range d.Assets {
		if strings.EqualFold(a.Name, name) || strings.EqualFold(a.Symbol, name) {
			return a.Name
		}
	}
	return name
}

func assetNames(d *pipeline.Dashboard) []string {
	names := make([]string, 0, len(d.Assets))
	for _, a := range d.Assets {
		names = append(names, a.Name)
	}
	return names
}
