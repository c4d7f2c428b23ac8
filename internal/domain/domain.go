package domain

import (
	"strings"
	"time"
)

// AssetDefinition is a tracked instrument and the keywords used to find news about it.
// Keywords are lower-cased when the catalog is loaded.
type AssetDefinition struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label"`
	Symbol   string   `json:"symbol,omitempty" yaml:"symbol"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DisplayName prefers the localized label when one is configured.
func (a AssetDefinition) DisplayName() string {
	if strings.TrimSpace(a.Label) != "" {
		return a.Label
	}
	return a.Name
}

// Article is a normalized news item. Values are never edited after fetch;
// translation produces a copy with SummaryTranslated populated.
type Article struct {
	Title             string     `json:"title"`
	Link              string     `json:"link"`
	SummaryRaw        string     `json:"summary_raw"`
	SummaryTranslated *string    `json:"summary_translated,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	Source            string     `json:"source,omitempty"`
}

// WithTranslation returns a copy of the article carrying the translated summary.
func (a Article) WithTranslation(text string) Article {
	out := a
	out.SummaryTranslated = &text
	return out
}

// Summary returns the translated summary when present, otherwise the raw one.
func (a Article) Summary() string {
	if a.SummaryTranslated != nil {
		return *a.SummaryTranslated
	}
	return a.SummaryRaw
}

// Text is the scoring and matching input: title and summary joined by one space.
func (a Article) Text() string {
	return a.Title + " " + a.SummaryRaw
}
