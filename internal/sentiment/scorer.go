package sentiment

import (
	"strings"
	"sync"

	"smartmarket/internal/domain"

	"github.com/jonreiter/govader"
)

// Scorer turns text into a compound polarity in [-1, 1]. Scoring is a pure
// function of the input; identical text always yields the identical float.
type Scorer interface {
	Score(text string) float64
}

// The analyzer parses the full VADER lexicon on construction and is
// read-only afterwards, so one instance serves every goroutine.
var vader = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// LexiconScorer is VADER's compound score: no training, no I/O.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{analyzer: vader()}
}

// ScoreArticle scores title and summary as one text, joined by a single space.
func ScoreArticle(s Scorer, a domain.Article) float64 {
	return s.Score(a.Text())
}

func (s *LexiconScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return s.analyzer.PolarityScores(text).Compound
}
