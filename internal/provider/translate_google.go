package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
)

const googleTranslateBaseURL = "https://translate.googleapis.com"

// GoogleTranslator calls the public web translation endpoint. It is
// unauthenticated, so calls are throttled through a token bucket.
type GoogleTranslator struct {
	client  *resty.Client
	tracer  trace.Tracer
	limiter *Throttle
	source  string
	target  string
}

func NewGoogleTranslator(tracer trace.Tracer, sourceLang, targetLang string) *GoogleTranslator {
	client := resty.New().
		SetBaseURL(googleTranslateBaseURL).
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; smartmarket/1.0)")
	return &GoogleTranslator{
		client:  client,
		tracer:  tracer,
		limiter: NewThrottle(5, time.Second),
		source:  sourceLang,
		target:  targetLang,
	}
}

func (t *GoogleTranslator) TargetLang() string { return t.target }

func (t *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	ctx, span := t.tracer.Start(ctx, "google-translate.translate")
	defer span.End()

	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     t.source,
			"tl":     t.target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("translate error %d: %s", resp.StatusCode(), sanitizeText(resp.String(), 200))
	}
	return parseGoogleTranslation(resp.Body())
}

// parseGoogleTranslation reads the nested-array payload; the first element
// holds [translated, original, ...] segments.
func parseGoogleTranslation(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}
	segments, ok := raw[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translation payload")
	}
	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}
	return b.String(), nil
}
