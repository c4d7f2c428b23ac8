package news

import (
	"strings"

	"smartmarket/internal/domain"
)

// KeywordClassifier assigns articles to every asset whose keywords occur as a
// substring of the case-folded title and summary.
type KeywordClassifier struct{}

func NewKeywordClassifier() KeywordClassifier {
	return KeywordClassifier{}
}

// Classify preserves input order within each asset. Assets with no matches
// map to an empty slice. Keywords are expected to be lower-cased already.
func (KeywordClassifier) Classify(articles []domain.Article, assets []domain.AssetDefinition) map[string][]domain.Article {
	folded := make([]string, len(articles))
	for i, a := range articles {
		folded[i] = strings.ToLower(a.Title) + " " + strings.ToLower(a.SummaryRaw)
	}

	out := make(map[string][]domain.Article, len(assets))
	for _, asset := range assets {
		matched := make([]domain.Article, 0)
		for i, text := range folded {
			if containsAny(text, asset.Keywords) {
				matched = append(matched, articles[i])
			}
		}
		out[asset.Name] = matched
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
