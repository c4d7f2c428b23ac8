package domain

type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendNeutral Trend = "Neutral"
	TrendBearish Trend = "Bearish"
)

type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "Low"
	ConfidenceMedium ConfidenceTier = "Medium"
	ConfidenceHigh   ConfidenceTier = "High"
)

// AssetAnalysis is the per-asset outcome of one analysis run.
// ArticleCount always equals len(Articles).
type AssetAnalysis struct {
	Asset          AssetDefinition `json:"asset"`
	Articles       []Article       `json:"articles"`
	MeanSentiment  float64         `json:"mean_sentiment"`
	Trend          Trend           `json:"trend"`
	ArticleCount   int             `json:"article_count"`
	ConfidenceTier ConfidenceTier  `json:"confidence_tier"`
}

// Results maps asset name to its analysis for one run. Assets without
// relevant articles are absent, never present with a zero score.
type Results map[string]AssetAnalysis
