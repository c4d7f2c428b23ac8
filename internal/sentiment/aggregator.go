package sentiment

import (
	"math"
	"time"

	"smartmarket/internal/domain"
)

const (
	bullishThreshold = 0.10
	bearishThreshold = -0.10

	highConfidenceMin   = 5
	mediumConfidenceMin = 3
)

// TrendFor maps a mean sentiment to its trend label. Every consumer of a
// trend goes through here so that the bands cannot drift apart.
func TrendFor(score float64) domain.Trend {
	switch {
	case score > bullishThreshold:
		return domain.TrendBullish
	case score < bearishThreshold:
		return domain.TrendBearish
	default:
		return domain.TrendNeutral
	}
}

func ConfidenceFor(articleCount int) domain.ConfidenceTier {
	switch {
	case articleCount >= highConfidenceMin:
		return domain.ConfidenceHigh
	case articleCount >= mediumConfidenceMin:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// RecencyPolicy weights each article by 0.5^(age/HalfLife). A zero HalfLife
// means the plain arithmetic mean. Articles without a timestamp get weight 1.
type RecencyPolicy struct {
	HalfLife time.Duration
	Now      time.Time
}

func (p RecencyPolicy) weight(a domain.Article) float64 {
	if p.HalfLife <= 0 || a.PublishedAt == nil {
		return 1
	}
	age := p.Now.Sub(*a.PublishedAt)
	if age < 0 {
		age = 0
	}
	return math.Pow(0.5, float64(age)/float64(p.HalfLife))
}

type Aggregator struct {
	scorer  Scorer
	recency RecencyPolicy
}

func NewAggregator(scorer Scorer, recency RecencyPolicy) *Aggregator {
	if scorer == nil {
		scorer = NewLexiconScorer()
	}
	return &Aggregator{scorer: scorer, recency: recency}
}

// At returns a copy whose recency weights are measured from now.
func (g *Aggregator) At(now time.Time) *Aggregator {
	out := *g
	out.recency.Now = now
	return &out
}

// Aggregate reduces the relevant articles of one asset into an analysis.
// ok is false when there is nothing to aggregate; callers drop the asset.
func (g *Aggregator) Aggregate(asset domain.AssetDefinition, articles []domain.Article) (domain.AssetAnalysis, bool) {
	if len(articles) == 0 {
		return domain.AssetAnalysis{}, false
	}

	var sum, weights float64
	for _, a := range articles {
		w := g.recency.weight(a)
		sum += w * ScoreArticle(g.scorer, a)
		weights += w
	}
	mean := 0.0
	if weights > 0 {
		mean = sum / weights
	}

	kept := make([]domain.Article, len(articles))
	copy(kept, articles)

	return domain.AssetAnalysis{
		Asset:          asset,
		Articles:       kept,
		MeanSentiment:  mean,
		Trend:          TrendFor(mean),
		ArticleCount:   len(kept),
		ConfidenceTier: ConfidenceFor(len(kept)),
	}, true
}

// Classifier partitions articles by asset relevance.
type Classifier interface {
	Classify(articles []domain.Article, assets []domain.AssetDefinition) map[string][]domain.Article
}

// AnalyzeAll is the single classification and aggregation path. Every view
// of a run is built from the Results it returns.
func (g *Aggregator) AnalyzeAll(classifier Classifier, assets []domain.AssetDefinition, articles []domain.Article) domain.Results {
	relevant := classifier.Classify(articles, assets)
	results := make(domain.Results, len(assets))
	for _, asset := range assets {
		analysis, ok := g.Aggregate(asset, relevant[asset.Name])
		if !ok {
			continue
		}
		results[asset.Name] = analysis
	}
	return results
}
