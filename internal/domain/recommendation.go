package domain

type Action string

const (
	ActionStrongBuy  Action = "StrongBuy"
	ActionWeakBuy    Action = "WeakBuy"
	ActionRangeTrade Action = "RangeTrade"
	ActionReduce     Action = "Reduce"
	ActionStrongSell Action = "StrongSell"
	ActionWait       Action = "Wait"
)

type RiskTier string

const (
	RiskLow       RiskTier = "Low"
	RiskLowMedium RiskTier = "Low-Medium"
	RiskMedium    RiskTier = "Medium"
	RiskHigh      RiskTier = "High"
)

// PctRange is a percentage interval such as a 0.8-1.2% price target.
type PctRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type Recommendation struct {
	Asset       string    `json:"asset"`
	Action      Action    `json:"action"`
	Rationale   string    `json:"rationale"`
	RiskTier    RiskTier  `json:"risk_tier"`
	Timeframe   string    `json:"timeframe,omitempty"`
	TargetPct   *PctRange `json:"target_pct,omitempty"`
	StopLossPct *float64  `json:"stop_loss_pct,omitempty"`
}
