package render

import (
	"fmt"
	"io"
	"strings"

	"smartmarket/internal/domain"
	"smartmarket/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	bullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	bearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

func trendText(t domain.Trend) string {
	switch t {
	case domain.TrendBullish:
		return bullishStyle.Render(string(t))
	case domain.TrendBearish:
		return bearishStyle.Render(string(t))
	}
	return neutralStyle.Render(string(t))
}

func Summary(w io.Writer, d *pipeline.Dashboard) {
	fmt.Fprintln(w, titleStyle.Render("Market sentiment · "+d.GeneratedAt.Format("2006-01-02 15:04 MST")))
	rows := d.Summary()
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No relevant news found."))
		warnings(w, d.Warnings)
		return
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s %-9s %8s %6s  %s", "Asset", "Trend", "Mean", "Count", "Confidence")))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n%-20s %s %8.3f %6d  %s",
			r.Label, padTrend(r.Trend), r.MeanSentiment, r.ArticleCount, r.ConfidenceTier)
	}
	fmt.Fprintln(w, panelStyle.Render(b.String()))
	warnings(w, d.Warnings)
}

func Full(w io.Writer, d *pipeline.Dashboard) {
	fmt.Fprintln(w, titleStyle.Render("Market dashboard · "+d.GeneratedAt.Format("2006-01-02 15:04 MST")))
	entries := d.Full()
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No relevant news found."))
	}
	for _, e := range entries {
		fmt.Fprintln(w, panelStyle.Render(entryBody(e)))
	}
	warnings(w, d.Warnings)
}

func Comparison(w io.Writer, d *pipeline.Dashboard) {
	c := d.Comparison()
	fmt.Fprintln(w, titleStyle.Render("Asset comparison"))
	if len(c.Ranked) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No relevant news found."))
		warnings(w, d.Warnings)
		return
	}
	var b strings.Builder
	for i, r := range c.Ranked {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %-20s %+.3f %s", i+1, r.Label, r.MeanSentiment, trendText(r.Trend))
	}
	fmt.Fprintf(&b, "\n\nStrongest %s, weakest %s, spread %.3f", c.Strongest, c.Weakest, c.Spread)
	fmt.Fprintf(&b, "\nOverall tone %s (%+.3f)", trendText(c.MarketTone), c.MarketMean)
	fmt.Fprintln(w, panelStyle.Render(b.String()))
	warnings(w, d.Warnings)
}

func History(w io.Writer, records []domain.HistoryRecord) {
	fmt.Fprintln(w, titleStyle.Render("Analysis history"))
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No history recorded yet."))
		return
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s  %-10s %-9s %8s %6s", "Date", "Asset", "Trend", "Mean", "Count")))
	for _, r := range records {
		fmt.Fprintf(&b, "\n%-10s  %-10s %s %8.3f %6d",
			r.Date.Format("2006-01-02"), r.Asset, padTrend(r.Trend), r.Sentiment, r.ArticleCount)
	}
	fmt.Fprintln(w, panelStyle.Render(b.String()))
}

func Persistence(w io.Writer, stats []domain.PersistenceStat) {
	fmt.Fprintln(w, titleStyle.Render("Sentiment persistence"))
	fmt.Fprintln(w, mutedStyle.Render("Share of consecutive records that kept the same sentiment sign. Not a prediction score."))
	if len(stats) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Not enough history: each asset needs two records."))
		return
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %11s %6s %8s", "Asset", "Persistence", "Days", "Mean")))
	for _, s := range stats {
		fmt.Fprintf(&b, "\n%-10s %10.1f%% %6d %8.3f", s.Asset, s.AccuracyPct, s.SampleDays, s.MeanSentiment)
	}
	fmt.Fprintln(w, panelStyle.Render(b.String()))
}

func entryBody(e pipeline.FullEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %+.3f  %s confidence, %d articles",
		headerStyle.Render(e.Label), trendText(e.Trend), e.MeanSentiment, e.ConfidenceTier, e.ArticleCount)

	rec := e.Recommendation
	fmt.Fprintf(&b, "\n%s · risk %s", headerStyle.Render(string(rec.Action)), rec.RiskTier)
	if rec.Timeframe != "" {
		fmt.Fprintf(&b, " · %s", rec.Timeframe)
	}
	if rec.TargetPct != nil {
		fmt.Fprintf(&b, " · target %.1f-%.1f%%", rec.TargetPct.Low, rec.TargetPct.High)
	}
	if rec.StopLossPct != nil {
		fmt.Fprintf(&b, " · stop %.1f%%", *rec.StopLossPct)
	}
	fmt.Fprintf(&b, "\n%s", mutedStyle.Render(rec.Rationale))

	if t := e.Technicals; t != nil {
		fmt.Fprintf(&b, "\nTechnicals %s · price %.2f · MA20 %.2f · MA50 %.2f · RSI %.1f",
			t.Trend, t.Price, t.MovingAvg20, t.MovingAvg50, t.RSI14)
	}
	for _, h := range e.Headlines {
		fmt.Fprintf(&b, "\n• %s", h.Title)
		if s := h.Summary(); s != "" {
			fmt.Fprintf(&b, "\n  %s", mutedStyle.Render(s))
		}
	}
	return b.String()
}

func padTrend(t domain.Trend) string {
	return trendText(t) + strings.Repeat(" ", max(0, 9-len(t)))
}

func warnings(w io.Writer, ws []string) {
	for _, msg := range ws {
		fmt.Fprintln(w, warnStyle.Render("! "+msg))
	}
}
