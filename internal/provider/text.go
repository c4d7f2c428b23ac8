package provider

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// htmlToText flattens an HTML fragment to its visible text. Input that fails
// to parse is returned unchanged.
func htmlToText(in string) string {
	if strings.TrimSpace(in) == "" || !strings.ContainsAny(in, "<&") {
		return in
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in))
	if err != nil {
		return in
	}
	doc.Find("script, style").Remove()

	var parts []string
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.Join(parts, " ")
}

// sanitizeText collapses whitespace and caps the result at maxLen bytes
// without splitting a UTF-8 sequence.
func sanitizeText(in string, maxLen int) string {
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(in[cut]) {
			cut--
		}
		in = in[:cut]
	}
	return in
}
