package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smartmarket/internal/domain"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RSSProvider fetches a feed and normalizes its entries into articles.
type RSSProvider struct {
	client *http.Client
	tracer trace.Tracer
}

func NewRSSProvider(tracer trace.Tracer) *RSSProvider {
	return &RSSProvider{
		client: &http.Client{Timeout: 20 * time.Second},
		tracer: tracer,
	}
}

func (p *RSSProvider) FetchFeed(ctx context.Context, feedURL string, maxItems int) ([]domain.Article, error) {
	ctx, span := p.tracer.Start(ctx, "rss.fetch-feed")
	defer span.End()

	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("feed url is required")
	}
	if maxItems <= 0 {
		maxItems = 10
	}
	span.SetAttributes(attribute.String("feed.url", feedURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	req.Header.Set("User-Agent", "smartmarket/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	channel := sanitizeText(feed.Title, 120)
	items := make([]domain.Article, 0, min(maxItems, len(feed.Items)))
	for _, entry := range feed.Items {
		if len(items) >= maxItems {
			break
		}
		title := sanitizeText(htmlToText(entry.Title), 300)
		if title == "" {
			continue
		}
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}

		var published *time.Time
		switch {
		case entry.PublishedParsed != nil:
			t := entry.PublishedParsed.UTC()
			published = &t
		case entry.UpdatedParsed != nil:
			t := entry.UpdatedParsed.UTC()
			published = &t
		}

		items = append(items, domain.Article{
			Title:       title,
			Link:        sanitizeText(entry.Link, 500),
			SummaryRaw:  sanitizeText(htmlToText(summary), 1000),
			PublishedAt: published,
			Source:      channel,
		})
	}
	span.SetAttributes(attribute.Int("feed.items", len(items)))
	return items, nil
}
