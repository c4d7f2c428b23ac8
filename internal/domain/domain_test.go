package domain

import "testing"

func TestArticleWithTranslationLeavesOriginal(t *testing.T) {
	a := Article{Title: "Gold rises", SummaryRaw: "Gold rose today"}
	translated := a.WithTranslation("ทองขึ้น")

	if a.SummaryTranslated != nil {
		t.Fatal("original article should not be modified")
	}
	if translated.Summary() != "ทองขึ้น" {
		t.Fatalf("expected translated summary, got %q", translated.Summary())
	}
	if a.Summary() != "Gold rose today" {
		t.Fatalf("expected raw summary fallback, got %q", a.Summary())
	}
}

func TestArticleText(t *testing.T) {
	a := Article{Title: "Bitcoin", SummaryRaw: "rallies"}
	if a.Text() != "Bitcoin rallies" {
		t.Fatalf("unexpected text %q", a.Text())
	}
}

func TestAssetDisplayName(t *testing.T) {
	if got := (AssetDefinition{Name: "Gold"}).DisplayName(); got != "Gold" {
		t.Fatalf("expected name fallback, got %s", got)
	}
	if got := (AssetDefinition{Name: "Gold", Label: "ทองคำ (XAU)"}).DisplayName(); got != "ทองคำ (XAU)" {
		t.Fatalf("expected label, got %s", got)
	}
}
