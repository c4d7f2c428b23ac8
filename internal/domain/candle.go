package domain

import "time"

// Candle is a single daily OHLCV bar.
type Candle struct {
	Symbol   string    `json:"symbol"`
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

type TechnicalTrend string

const (
	TechnicalUp   TechnicalTrend = "Up"
	TechnicalDown TechnicalTrend = "Down"
	TechnicalFlat TechnicalTrend = "Flat"
)

// TechnicalSnapshot is the indicator set derived from recent daily closes.
type TechnicalSnapshot struct {
	Symbol       string         `json:"symbol"`
	Price        float64        `json:"price"`
	MovingAvg20  float64        `json:"ma20"`
	MovingAvg50  float64        `json:"ma50"`
	RSI14        float64        `json:"rsi14"`
	Trend        TechnicalTrend `json:"trend"`
	CalculatedAt time.Time      `json:"calculated_at"`
}
