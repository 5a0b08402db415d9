// Package feed pulls external legal-change feeds and normalizes their items.
// Feed-specific shapes end here; the rest of the system sees only
// domain.LawChangeInput.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/heartmarshall/legalpulse/internal/adapter/htmltext"
	"github.com/heartmarshall/legalpulse/internal/config"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

// RSSSource pulls one RSS, Atom or JSON feed.
type RSSSource struct {
	id     string
	url    string
	area   string
	parser *gofeed.Parser
	conv   *htmltext.Converter
}

// NewRSSSource creates a source for one configured feed.
func NewRSSSource(cfg config.FeedConfig, client *http.Client, userAgent string) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	p := gofeed.NewParser()
	p.Client = client
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &RSSSource{
		id:     cfg.ID,
		url:    cfg.URL,
		area:   cfg.Area,
		parser: p,
		conv:   htmltext.New(),
	}
}

// ID returns the configured feed id.
func (s *RSSSource) ID() string { return s.id }

// Pull fetches the feed and returns its normalized items. Items without a
// title are dropped.
func (s *RSSSource) Pull(ctx context.Context) ([]domain.LawChangeInput, error) {
	f, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", s.id, err)
	}

	out := make([]domain.LawChangeInput, 0, len(f.Items))
	for _, item := range f.Items {
		if in, ok := s.Normalize(item); ok {
			out = append(out, in)
		}
	}
	return out, nil
}

// Normalize maps one feed item to a LawChangeInput.
func (s *RSSSource) Normalize(item *gofeed.Item) (domain.LawChangeInput, bool) {
	if item == nil {
		return domain.LawChangeInput{}, false
	}

	title := strings.Join(strings.Fields(s.conv.Fragment(item.Title)), " ")
	if title == "" {
		return domain.LawChangeInput{}, false
	}

	desc := item.Description
	if len(item.Content) > len(desc) {
		desc = item.Content
	}

	in := domain.LawChangeInput{
		Title:       title,
		Description: s.conv.Fragment(desc),
		URL:         itemURL(item),
		FeedID:      s.id,
		Area:        s.area,
	}
	switch {
	case item.PublishedParsed != nil:
		in.PublishedAt = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		in.PublishedAt = item.UpdatedParsed.UTC()
	}
	if in.Area == "" && len(item.Categories) > 0 {
		in.Area = strings.TrimSpace(item.Categories[0])
	}
	return in, true
}

func itemURL(item *gofeed.Item) string {
	candidates := append([]string{item.Link}, item.Links...)
	candidates = append(candidates, item.GUID)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if u, err := url.Parse(c); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return c
		}
	}
	return ""
}
