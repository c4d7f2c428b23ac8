package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"smartmarket/internal/domain"
	"smartmarket/internal/history"
	"smartmarket/internal/logger"
	"smartmarket/internal/sentiment"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ArticleSource interface {
	Articles(ctx context.Context, sources []string) ([]domain.Article, []string)
}

// TechnicalSource returns nil without error when a symbol has too little data.
type TechnicalSource interface {
	Snapshot(ctx context.Context, symbol string) (*domain.TechnicalSnapshot, error)
}

type Translator interface {
	Translate(ctx context.Context, text string) string
}

type Recommender interface {
	Recommend(analysis domain.AssetAnalysis, technical *domain.TechnicalTrend) domain.Recommendation
}

type Config struct {
	Assets            []domain.AssetDefinition
	Feeds             []string
	HeadlinesPerAsset int
}

// Deps wires the collaborators of a run. Technicals, Translator and History
// are optional.
type Deps struct {
	Articles    ArticleSource
	Classifier  sentiment.Classifier
	Aggregator  *sentiment.Aggregator
	Recommender Recommender
	Technicals  TechnicalSource
	Translator  Translator
	History     history.Store
}

type Pipeline struct {
	tracer trace.Tracer
	deps   Deps
	cfg    Config
}

func New(tracer trace.Tracer, deps Deps, cfg Config) (*Pipeline, error) {
	if deps.Articles == nil || deps.Classifier == nil || deps.Recommender == nil {
		return nil, fmt.Errorf("pipeline: articles, classifier and recommender are required")
	}
	if deps.Aggregator == nil {
		deps.Aggregator = sentiment.NewAggregator(nil, sentiment.RecencyPolicy{})
	}
	if cfg.HeadlinesPerAsset <= 0 {
		cfg.HeadlinesPerAsset = 3
	}
	return &Pipeline{tracer: tracer, deps: deps, cfg: cfg}, nil
}

// Run performs one full analysis pass. Stage failures are reported as
// warnings on the dashboard and never abort the run.
func (p *Pipeline) Run(ctx context.Context, now time.Time) *Dashboard {
	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	now = now.UTC()
	d := &Dashboard{
		GeneratedAt:     now,
		Assets:          cloneAssets(p.cfg.Assets),
		Recommendations: make(map[string]domain.Recommendation),
		Technicals:      make(map[string]*domain.TechnicalSnapshot),
		Headlines:       make(map[string][]domain.Article),
	}

	articles, warnings := p.deps.Articles.Articles(ctx, p.cfg.Feeds)
	d.Warnings = append(d.Warnings, warnings...)
	d.ArticlesSeen = len(articles)

	d.Results = p.deps.Aggregator.At(now).AnalyzeAll(p.deps.Classifier, p.cfg.Assets, articles)

	for _, asset := range p.cfg.Assets {
		analysis, ok := d.Results[asset.Name]
		if !ok {
			continue
		}

		var technical *domain.TechnicalTrend
		if snap := p.technicals(ctx, asset, d); snap != nil {
			d.Technicals[asset.Name] = snap
			tt := snap.Trend
			technical = &tt
		}
		rec := p.deps.Recommender.Recommend(analysis, technical)
		rec.Asset = asset.Name
		d.Recommendations[asset.Name] = rec
		d.Headlines[asset.Name] = p.headlines(ctx, analysis.Articles)
	}

	if p.deps.History != nil && len(d.Results) > 0 {
		if err := history.Save(ctx, p.deps.History, now, d.Results, now); err != nil {
			logger.Error(ctx, "history save failed", err)
			d.Warnings = append(d.Warnings, "history:save: "+err.Error())
		}
	}

	span.SetAttributes(
		attribute.Int("articles.count", d.ArticlesSeen),
		attribute.Int("assets.present", len(d.Results)),
		attribute.Int("warnings.count", len(d.Warnings)),
	)
	logger.Info(ctx, "analysis run complete",
		zap.Int("articles", d.ArticlesSeen),
		zap.Int("assets", len(d.Results)),
		zap.Int("warnings", len(d.Warnings)),
	)
	return d
}

func (p *Pipeline) technicals(ctx context.Context, asset domain.AssetDefinition, d *Dashboard) *domain.TechnicalSnapshot {
	if p.deps.Technicals == nil || asset.Symbol == "" {
		return nil
	}
	snap, err := p.deps.Technicals.Snapshot(ctx, asset.Symbol)
	if err != nil {
		logger.Warn(ctx, "technicals unavailable", zap.String("symbol", asset.Symbol), zap.Error(err))
		d.Warnings = append(d.Warnings, fmt.Sprintf("technicals:%s: %v", asset.Symbol, err))
		return nil
	}
	return snap
}

// headlines copies the leading articles and attaches translated summaries.
// The analysed articles are left untouched.
func (p *Pipeline) headlines(ctx context.Context, articles []domain.Article) []domain.Article {
	n := min(p.cfg.HeadlinesPerAsset, len(articles))
	out := make([]domain.Article, 0, n)
	for _, a := range articles[:n] {
		if p.deps.Translator != nil && a.SummaryRaw != "" {
			a = a.WithTranslation(p.deps.Translator.Translate(ctx, a.SummaryRaw))
		}
		out = append(out, a)
	}
	return out
}

func cloneAssets(in []domain.AssetDefinition) []domain.AssetDefinition {
	out := make([]domain.AssetDefinition, len(in))
	copy(out, in)
	return out
}

// orderedNames lists present assets in catalog order.
func orderedNames(assets []domain.AssetDefinition, results domain.Results) []string {
	names := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, a := range assets {
		if _, ok := results[a.Name]; ok {
			names = append(names, a.Name)
			seen[a.Name] = true
		}
	}
	var extra []string
	for name := range results {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
