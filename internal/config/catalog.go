package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"smartmarket/internal/domain"

	"gopkg.in/yaml.v3"
)

var ErrInvalidAsset = errors.New("invalid asset definition")

// Catalog is the static list of tracked assets and the feeds searched for them.
type Catalog struct {
	Assets []domain.AssetDefinition `yaml:"assets"`
	Feeds  []string                 `yaml:"feeds"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Assets: []domain.AssetDefinition{
			{Name: "Gold", Label: "ทองคำ (XAU)", Symbol: "GC=F", Keywords: []string{"gold", "xauusd", "bullion"}},
			{Name: "Silver", Label: "เงิน (XAG)", Symbol: "SI=F", Keywords: []string{"silver", "xagusd"}},
			{Name: "Bitcoin", Label: "บิตคอยน์ (BTC)", Symbol: "BTC-USD", Keywords: []string{"bitcoin", "btc", "crypto"}},
		},
		Feeds: []string{
			"https://news.google.com/rss/search?q=gold+price+OR+XAUUSD&hl=en-US&gl=US&ceid=US:en",
			"https://news.google.com/rss/search?q=silver+price+OR+XAGUSD&hl=en-US&gl=US&ceid=US:en",
			"https://news.google.com/rss/search?q=bitcoin+OR+BTCUSD&hl=en-US&gl=US&ceid=US:en",
		},
	}
}

// LoadCatalog reads a YAML catalog. An empty path yields the built-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Feeds) == 0 {
		c.Feeds = DefaultCatalog().Feeds
	}
	if err := c.normalize(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// normalize lower-cases keywords once and rejects assets that could never match.
func (c *Catalog) normalize() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("%w: catalog has no assets", ErrInvalidAsset)
	}
	seen := make(map[string]struct{}, len(c.Assets))
	for i := range c.Assets {
		a := &c.Assets[i]
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			return fmt.Errorf("%w: asset %d has no name", ErrInvalidAsset, i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: duplicate asset %q", ErrInvalidAsset, a.Name)
		}
		seen[a.Name] = struct{}{}

		keywords := make([]string, 0, len(a.Keywords))
		uniq := make(map[string]struct{}, len(a.Keywords))
		for _, kw := range a.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, ok := uniq[kw]; ok {
				continue
			}
			uniq[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		if len(keywords) == 0 {
			return fmt.Errorf("%w: asset %q has no keywords", ErrInvalidAsset, a.Name)
		}
		a.Keywords = keywords
	}

	feeds := make([]string, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		if f = strings.TrimSpace(f); f != "" {
			feeds = append(feeds, f)
		}
	}
	c.Feeds = feeds
	return nil
}
