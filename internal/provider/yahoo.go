package provider

import (
	"context"
	"fmt"
	"time"

	"smartmarket/internal/domain"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// chartIter is the subset of the finance-go chart iterator used here.
type chartIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// YahooProvider loads daily candles from the Yahoo Finance chart API.
type YahooProvider struct {
	tracer   trace.Tracer
	getChart func(*chart.Params) chartIter
	now      func() time.Time
}

func NewYahooProvider(tracer trace.Tracer) *YahooProvider {
	return &YahooProvider{
		tracer:   tracer,
		getChart: func(p *chart.Params) chartIter { return chart.Get(p) },
		now:      time.Now,
	}
}

// DailyCandles returns up to lookbackDays of daily bars, oldest first.
func (p *YahooProvider) DailyCandles(ctx context.Context, symbol string, lookbackDays int) ([]domain.Candle, error) {
	_, span := p.tracer.Start(ctx, "yahoo.daily-candles")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if lookbackDays <= 0 {
		lookbackDays = 120
	}

	end := p.now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)
	iter := p.getChart(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var candles []domain.Candle
	for iter.Next() {
		bar := iter.Bar()
		if bar == nil || bar.Close.IsZero() {
			continue
		}
		candles = append(candles, domain.Candle{
			Symbol:   symbol,
			OpenTime: time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:     toFloat(bar.Open),
			High:     toFloat(bar.High),
			Low:      toFloat(bar.Low),
			Close:    toFloat(bar.Close),
			Volume:   float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	span.SetAttributes(attribute.Int("candles", len(candles)))
	return candles, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
