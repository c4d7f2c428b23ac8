package ta

import (
	"time"

	"smartmarket/internal/domain"
)

const (
	shortWindow = 20
	longWindow  = 50
	rsiPeriod   = 14
)

// MinCloses is the shortest history Technicals accepts.
const MinCloses = longWindow

// TrendFromAverages labels price against its 20- and 50-period averages.
func TrendFromAverages(price, ma20, ma50 float64) domain.TechnicalTrend {
	switch {
	case price > ma20 && ma20 > ma50:
		return domain.TechnicalUp
	case price < ma20 && ma20 < ma50:
		return domain.TechnicalDown
	default:
		return domain.TechnicalFlat
	}
}

// Technicals summarises a close series, oldest first. It reports false when
// there are fewer than MinCloses values.
func Technicals(symbol string, closes []float64, now time.Time) (*domain.TechnicalSnapshot, bool) {
	if len(closes) < MinCloses {
		return nil, false
	}
	ma20, _ := SMA(closes, shortWindow)
	ma50, _ := SMA(closes, longWindow)
	price := closes[len(closes)-1]

	snap := &domain.TechnicalSnapshot{
		Symbol:       symbol,
		Price:        price,
		MovingAvg20:  ma20,
		MovingAvg50:  ma50,
		Trend:        TrendFromAverages(price, ma20, ma50),
		CalculatedAt: now.UTC(),
	}
	if rsi, ok := RSI(closes, rsiPeriod); ok {
		snap.RSI14 = rsi
	}
	return snap, true
}
