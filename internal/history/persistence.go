package history

import (
	"sort"

	"smartmarket/internal/domain"
)

// SentimentPersistence measures, per asset, how often the sign of recorded
// sentiment carries over from one record to the next in date order. It is a
// measure of sentiment autocorrelation and does not validate any trading
// outcome. Assets with fewer than two records are omitted.
func SentimentPersistence(records []domain.HistoryRecord) map[string]domain.PersistenceStat {
	byAsset := make(map[string][]domain.HistoryRecord)
	for _, r := range records {
		byAsset[r.Asset] = append(byAsset[r.Asset], r)
	}

	out := make(map[string]domain.PersistenceStat, len(byAsset))
	for asset, rs := range byAsset {
		if len(rs) < 2 {
			continue
		}
		sortChronological(rs)

		hits := 0
		sum := rs[0].Sentiment
		for i := 1; i < len(rs); i++ {
			if sign(rs[i].Sentiment) == sign(rs[i-1].Sentiment) {
				hits++
			}
			sum += rs[i].Sentiment
		}
		out[asset] = domain.PersistenceStat{
			Asset:         asset,
			AccuracyPct:   float64(hits) / float64(len(rs)-1) * 100,
			SampleDays:    len(rs),
			MeanSentiment: sum / float64(len(rs)),
		}
	}
	return out
}

// SortedStats returns stats ordered by asset name for stable rendering.
func SortedStats(stats map[string]domain.PersistenceStat) []domain.PersistenceStat {
	out := make([]domain.PersistenceStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
