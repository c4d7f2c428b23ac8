package recommend

import (
	"fmt"

	"smartmarket/internal/domain"
)

const (
	strongSentiment = 0.15

	tierStrongBuy = 0.2
	tierWeakBuy   = 0.1
	tierRange     = -0.1
	tierReduce    = -0.2
)

// Engine maps an asset analysis, optionally modulated by a technical trend,
// to a trading suggestion. It is a deterministic heuristic, not a validated
// strategy. Confidence only annotates the rationale.
type Engine struct{}

func NewEngine() Engine {
	return Engine{}
}

func (Engine) Recommend(analysis domain.AssetAnalysis, technical *domain.TechnicalTrend) domain.Recommendation {
	var rec domain.Recommendation
	if technical == nil {
		rec = sentimentOnly(analysis.MeanSentiment)
	} else {
		rec = withTechnical(analysis.MeanSentiment, *technical)
	}
	rec.Asset = analysis.Asset.Name
	rec.Rationale = fmt.Sprintf("%s (sentiment %.2f, confidence %s, %d articles)",
		rec.Rationale, analysis.MeanSentiment, analysis.ConfidenceTier, analysis.ArticleCount)
	return rec
}

func withTechnical(s float64, tt domain.TechnicalTrend) domain.Recommendation {
	switch {
	case s > strongSentiment && tt == domain.TechnicalUp:
		return plan(domain.ActionStrongBuy, domain.RiskMedium, "1–3 periods", 0.8, 1.2, 0.4,
			"Strong positive news flow confirmed by an uptrend")
	case s > strongSentiment && tt == domain.TechnicalDown:
		return plan(domain.ActionWeakBuy, domain.RiskHigh, "2–5 periods", 1.0, 1.5, 0.6,
			"Positive news against a downtrend: wait for pullback")
	case s > 0 && tt == domain.TechnicalUp:
		return plan(domain.ActionWeakBuy, domain.RiskLowMedium, "1–2 periods", 0.5, 0.8, 0.3,
			"Mildly positive news in an uptrend: buy the dip")
	case s < -strongSentiment && tt == domain.TechnicalDown:
		return plan(domain.ActionStrongSell, domain.RiskHigh, "2–5 periods", 1.0, 2.0, 0.8,
			"Strong negative news confirmed by a downtrend")
	}
	return domain.Recommendation{
		Action:    domain.ActionWait,
		RiskTier:  domain.RiskLow,
		Rationale: fmt.Sprintf("Signals conflict or are weak (technical trend %s)", tt),
	}
}

func sentimentOnly(s float64) domain.Recommendation {
	switch {
	case s > tierStrongBuy:
		return plan(domain.ActionStrongBuy, domain.RiskMedium, "1–3 periods", 0.8, 1.2, 0.4,
			"Strongly positive news flow, no technical confirmation available")
	case s > tierWeakBuy:
		return plan(domain.ActionWeakBuy, domain.RiskMedium, "1–2 periods", 0.5, 0.8, 0.3,
			"Positive news flow, no technical confirmation available")
	case s >= tierRange:
		return domain.Recommendation{
			Action:    domain.ActionRangeTrade,
			RiskTier:  domain.RiskLow,
			Timeframe: "intraday",
			Rationale: "Neutral news flow: trade the range",
		}
	case s >= tierReduce:
		return domain.Recommendation{
			Action:    domain.ActionReduce,
			RiskTier:  domain.RiskMedium,
			Timeframe: "1–2 periods",
			Rationale: "Negative news flow: reduce exposure",
		}
	}
	return plan(domain.ActionStrongSell, domain.RiskHigh, "2–5 periods", 1.0, 2.0, 0.8,
		"Strongly negative news flow, no technical confirmation available")
}

func plan(action domain.Action, risk domain.RiskTier, timeframe string, targetLow, targetHigh, stop float64, why string) domain.Recommendation {
	return domain.Recommendation{
		Action:      action,
		RiskTier:    risk,
		Timeframe:   timeframe,
		TargetPct:   &domain.PctRange{Low: targetLow, High: targetHigh},
		StopLossPct: &stop,
		Rationale:   why,
	}
}
