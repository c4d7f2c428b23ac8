package sentiment

import (
	"strings"
	"testing"

	"smartmarket/internal/domain"
)

func TestScoreEmptyText(t *testing.T) {
	s := NewLexiconScorer()
	for _, text := range []string{"", "   ", "\n\t"} {
		if got := s.Score(text); got != 0 {
			t.Fatalf("Score(%q) = %v, want 0", text, got)
		}
	}
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	s := NewLexiconScorer()
	texts := []string{
		"Gold price gains on weak dollar",
		"Bitcoin crash sparks panic and fear!!!",
		strings.Repeat("crash panic fear losses ", 40),
		strings.Repeat("great win growth optimism ", 40),
		"Silver steady ahead of data",
	}
	for _, text := range texts {
		first := s.Score(text)
		second := s.Score(text)
		if first != second {
			t.Fatalf("non-deterministic score for %q: %v vs %v", text, first, second)
		}
		if first < -1 || first > 1 {
			t.Fatalf("score out of range for %q: %v", text, first)
		}
	}
}

func TestScoreHeadlinePolarity(t *testing.T) {
	s := NewLexiconScorer()
	cases := []struct {
		text string
		sign int
	}{
		{"Bitcoin investors are happy and excited", 1},
		{"Gold buyers thrilled as prices hit fresh peak", 1},
		{"Silver traders terrified, market in turmoil", -1},
		{"Analysts love the bitcoin ETF, call it brilliant", 1},
		{"Gold outlook is not good", -1},
		{"Gold is strong but silver is weak", -1},
		{"Silver market update", 0},
	}
	for _, tc := range cases {
		got := s.Score(tc.text)
		switch {
		case tc.sign > 0 && got <= 0.05,
			tc.sign < 0 && got >= -0.05,
			tc.sign == 0 && got != 0:
			t.Errorf("Score(%q) = %v, expected sign %d", tc.text, got, tc.sign)
		}
	}
}

func TestScoreModifiers(t *testing.T) {
	s := NewLexiconScorer()

	if s.Score("Gold outlook very good") <= s.Score("Gold outlook good") {
		t.Error("booster should intensify positive sentiment")
	}
	if s.Score("Gold outlook good!") <= s.Score("Gold outlook good") {
		t.Error("exclamation should intensify sentiment")
	}
	if s.Score("Gold outlook GOOD today") <= s.Score("Gold outlook good today") {
		t.Error("caps emphasis should intensify sentiment in mixed-case text")
	}
	if s.Score("Bitcoin extremely weak") >= s.Score("Bitcoin weak") {
		t.Error("booster should intensify negative sentiment")
	}
}

func TestScorersShareAnalyzer(t *testing.T) {
	if NewLexiconScorer().analyzer != NewLexiconScorer().analyzer {
		t.Fatal("expected one lexicon load per process")
	}
}

func TestScoreArticleConcatenatesWithSpace(t *testing.T) {
	s := NewLexiconScorer()
	a := domain.Article{Title: "Gold gains", SummaryRaw: "but demand fears grow"}
	if ScoreArticle(s, a) != s.Score("Gold gains but demand fears grow") {
		t.Fatal("article score must equal score of title + space + summary")
	}
}
