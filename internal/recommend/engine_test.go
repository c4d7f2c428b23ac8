package recommend

import (
	"strings"
	"testing"

	"smartmarket/internal/domain"
)

func analysis(score float64, tier domain.ConfidenceTier) domain.AssetAnalysis {
	return domain.AssetAnalysis{
		Asset:          domain.AssetDefinition{Name: "Gold"},
		MeanSentiment:  score,
		ArticleCount:   4,
		ConfidenceTier: tier,
	}
}

func trend(t domain.TechnicalTrend) *domain.TechnicalTrend { return &t }

func TestRecommendWithTechnicalTrend(t *testing.T) {
	cases := []struct {
		name      string
		score     float64
		technical domain.TechnicalTrend
		action    domain.Action
		risk      domain.RiskTier
		timeframe string
		target    *domain.PctRange
		stop      float64
	}{
		{"strong up", 0.2, domain.TechnicalUp, domain.ActionStrongBuy, domain.RiskMedium, "1–3 periods", &domain.PctRange{Low: 0.8, High: 1.2}, 0.4},
		{"strong against down", 0.2, domain.TechnicalDown, domain.ActionWeakBuy, domain.RiskHigh, "2–5 periods", &domain.PctRange{Low: 1.0, High: 1.5}, 0.6},
		{"mild up", 0.05, domain.TechnicalUp, domain.ActionWeakBuy, domain.RiskLowMedium, "1–2 periods", &domain.PctRange{Low: 0.5, High: 0.8}, 0.3},
		{"boundary 0.15 up is mild", 0.15, domain.TechnicalUp, domain.ActionWeakBuy, domain.RiskLowMedium, "1–2 periods", &domain.PctRange{Low: 0.5, High: 0.8}, 0.3},
		{"strong down", -0.2, domain.TechnicalDown, domain.ActionStrongSell, domain.RiskHigh, "2–5 periods", &domain.PctRange{Low: 1.0, High: 2.0}, 0.8},
		{"negative against up", -0.3, domain.TechnicalUp, domain.ActionWait, domain.RiskLow, "", nil, 0},
		{"mild down", -0.1, domain.TechnicalDown, domain.ActionWait, domain.RiskLow, "", nil, 0},
		{"flat", 0.5, domain.TechnicalFlat, domain.ActionWait, domain.RiskLow, "", nil, 0},
		{"zero up", 0, domain.TechnicalUp, domain.ActionWait, domain.RiskLow, "", nil, 0},
	}

	e := NewEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Recommend(analysis(tc.score, domain.ConfidenceMedium), trend(tc.technical))
			if got.Action != tc.action || got.RiskTier != tc.risk || got.Timeframe != tc.timeframe {
				t.Fatalf("unexpected recommendation %+v", got)
			}
			if tc.target == nil {
				if got.TargetPct != nil || got.StopLossPct != nil {
					t.Fatalf("wait should carry no target or stop: %+v", got)
				}
				if !strings.Contains(got.Rationale, "Signals conflict or are weak") {
					t.Fatalf("unexpected wait rationale %q", got.Rationale)
				}
				return
			}
			if got.TargetPct == nil || *got.TargetPct != *tc.target {
				t.Fatalf("expected target %+v, got %+v", tc.target, got.TargetPct)
			}
			if got.StopLossPct == nil || *got.StopLossPct != tc.stop {
				t.Fatalf("expected stop %v, got %v", tc.stop, got.StopLossPct)
			}
		})
	}
}

func TestRecommendSentimentOnly(t *testing.T) {
	cases := []struct {
		score  float64
		action domain.Action
	}{
		{0.25, domain.ActionStrongBuy},
		{0.2, domain.ActionWeakBuy},
		{0.15, domain.ActionWeakBuy},
		{0.1, domain.ActionRangeTrade},
		{0.05, domain.ActionRangeTrade},
		{-0.1, domain.ActionRangeTrade},
		{-0.15, domain.ActionReduce},
		{-0.2, domain.ActionReduce},
		{-0.21, domain.ActionStrongSell},
	}
	e := NewEngine()
	for _, tc := range cases {
		got := e.Recommend(analysis(tc.score, domain.ConfidenceLow), nil)
		if got.Action != tc.action {
			t.Errorf("score %v: expected %s, got %s", tc.score, tc.action, got.Action)
		}
	}
}

func TestConfidenceNeverChangesAction(t *testing.T) {
	e := NewEngine()
	for _, score := range []float64{-0.3, -0.12, 0, 0.12, 0.3} {
		low := e.Recommend(analysis(score, domain.ConfidenceLow), nil)
		high := e.Recommend(analysis(score, domain.ConfidenceHigh), nil)
		if low.Action != high.Action || low.RiskTier != high.RiskTier {
			t.Fatalf("confidence altered decision at %v: %s vs %s", score, low.Action, high.Action)
		}
		if !strings.Contains(high.Rationale, "confidence High") || !strings.Contains(low.Rationale, "confidence Low") {
			t.Fatalf("confidence missing from rationale: %q / %q", low.Rationale, high.Rationale)
		}
	}
}

func TestRecommendSetsAsset(t *testing.T) {
	got := NewEngine().Recommend(analysis(0, domain.ConfidenceLow), nil)
	if got.Asset != "Gold" {
		t.Fatalf("expected asset name, got %q", got.Asset)
	}
}
