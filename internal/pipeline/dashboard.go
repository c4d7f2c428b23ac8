package pipeline

import (
	"sort"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/sentiment"
)

// Dashboard is the outcome of one run. Summary, Full and Comparison all read
// the same Results map, so the three views cannot disagree on a number.
type Dashboard struct {
	GeneratedAt     time.Time                            `json:"generated_at"`
	Assets          []domain.AssetDefinition             `json:"-"`
	Results         domain.Results                       `json:"-"`
	Recommendations map[string]domain.Recommendation     `json:"-"`
	Technicals      map[string]*domain.TechnicalSnapshot `json:"-"`
	Headlines       map[string][]domain.Article          `json:"-"`
	ArticlesSeen    int                                  `json:"articles_seen"`
	Warnings        []string                             `json:"warnings,omitempty"`
}

type SummaryRow struct {
	Asset          string                `json:"asset"`
	Label          string                `json:"label"`
	Trend          domain.Trend          `json:"trend"`
	MeanSentiment  float64               `json:"mean_sentiment"`
	ArticleCount   int                   `json:"article_count"`
	ConfidenceTier domain.ConfidenceTier `json:"confidence_tier"`
}

type FullEntry struct {
	SummaryRow
	Headlines      []domain.Article          `json:"headlines"`
	Recommendation domain.Recommendation     `json:"recommendation"`
	Technicals     *domain.TechnicalSnapshot `json:"technicals,omitempty"`
}

type Comparison struct {
	Ranked     []SummaryRow `json:"ranked"`
	Strongest  string       `json:"strongest,omitempty"`
	Weakest    string       `json:"weakest,omitempty"`
	Spread     float64      `json:"spread"`
	MarketMean float64      `json:"market_mean"`
	MarketTone domain.Trend `json:"market_tone"`
}

// Summary lists present assets in catalog order.
func (d *Dashboard) Summary() []SummaryRow {
	names := orderedNames(d.Assets, d.Results)
	rows := make([]SummaryRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, summaryRow(d.Results[name]))
	}
	return rows
}

func (d *Dashboard) Full() []FullEntry {
	names := orderedNames(d.Assets, d.Results)
	out := make([]FullEntry, 0, len(names))
	for _, name := range names {
		out = append(out, d.entry(name))
	}
	return out
}

// Entry returns the full view of one asset, matched by name or label.
func (d *Dashboard) Entry(asset string) (FullEntry, bool) {
	for name, a := range d.Results {
		if name == asset || (a.Asset.Label != "" && a.Asset.Label == asset) {
			return d.entry(name), true
		}
	}
	return FullEntry{}, false
}

// Comparison ranks assets by mean sentiment, strongest first.
func (d *Dashboard) Comparison() Comparison {
	rows := d.Summary()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MeanSentiment > rows[j].MeanSentiment
	})

	c := Comparison{Ranked: rows, MarketTone: domain.TrendNeutral}
	if len(rows) == 0 {
		return c
	}
	var sum float64
	for _, r := range rows {
		sum += r.MeanSentiment
	}
	c.Strongest = rows[0].Asset
	c.Weakest = rows[len(rows)-1].Asset
	c.Spread = rows[0].MeanSentiment - rows[len(rows)-1].MeanSentiment
	c.MarketMean = sum / float64(len(rows))
	c.MarketTone = sentiment.TrendFor(c.MarketMean)
	return c
}

func (d *Dashboard) entry(name string) FullEntry {
	return FullEntry{
		SummaryRow:     summaryRow(d.Results[name]),
		Headlines:      d.Headlines[name],
		Recommendation: d.Recommendations[name],
		Technicals:     d.Technicals[name],
	}
}

func summaryRow(a domain.AssetAnalysis) SummaryRow {
	return SummaryRow{
		Asset:          a.Asset.Name,
		Label:          a.Asset.DisplayName(),
		Trend:          a.Trend,
		MeanSentiment:  a.MeanSentiment,
		ArticleCount:   a.ArticleCount,
		ConfidenceTier: a.ConfidenceTier,
	}
}
