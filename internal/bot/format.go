package bot

import (
	"fmt"
	"strings"

	"smartmarket/internal/domain"
	"smartmarket/internal/pipeline"
)

func formatSummary(d *pipeline.Dashboard) string {
	rows := d.Summary()
	if len(rows) == 0 {
		return "No relevant news found in the latest run."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Market sentiment (%s UTC)\n", d.GeneratedAt.Format("2006-01-02 15:04"))
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %s %+.3f (%d articles, %s confidence)\n",
			r.Label, r.Trend, r.MeanSentiment, r.ArticleCount, r.ConfidenceTier)
	}
	cmp := d.Comparison()
	fmt.Fprintf(&b, "Overall: %s %+.3f", cmp.MarketTone, cmp.MarketMean)
	return b.String()
}

func formatEntry(e pipeline.FullEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nTrend: %s %+.3f\nConfidence: %s (%d articles)\n",
		e.Label, e.Trend, e.MeanSentiment, e.ConfidenceTier, e.ArticleCount)

	rec := e.Recommendation
	fmt.Fprintf(&b, "Action: %s (risk %s)\n", rec.Action, rec.RiskTier)
	if rec.TargetPct != nil && rec.StopLossPct != nil {
		fmt.Fprintf(&b, "Target: %.1f-%.1f%%, stop %.1f%%, %s\n",
			rec.TargetPct.Low, rec.TargetPct.High, *rec.StopLossPct, rec.Timeframe)
	}
	fmt.Fprintf(&b, "%s\n", rec.Rationale)

	if t := e.Technicals; t != nil {
		fmt.Fprintf(&b, "Technicals: %s, price %.2f, MA20 %.2f, MA50 %.2f, RSI %.1f\n",
			t.Trend, t.Price, t.MovingAvg20, t.MovingAvg50, t.RSI14)
	}
	for _, h := range e.Headlines {
		fmt.Fprintf(&b, "- %s\n", h.Title)
		if s := h.Summary(); s != "" {
			fmt.Fprintf(&b, "  %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHistory(records []domain.HistoryRecord) string {
	if len(records) == 0 {
		return "No history recorded yet."
	}
	var b strings.Builder
	b.WriteString("Recent analyses\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s %s: %s %+.3f (%d)\n",
			r.Date.Format("2006-01-02"), r.Asset, r.Trend, r.Sentiment, r.ArticleCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPersistence(stats []domain.PersistenceStat) string {
	if len(stats) == 0 {
		return "Not enough history yet: each asset needs two recorded days."
	}
	var b strings.Builder
	b.WriteString("Sentiment persistence (sign kept day over day, not a prediction score)\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "%s: %.1f%% over %d days, mean %+.3f\n",
			s.Asset, s.AccuracyPct, s.SampleDays, s.MeanSentiment)
	}
	return strings.TrimRight(b.String(), "\n")
}
