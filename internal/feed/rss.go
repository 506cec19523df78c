package feed

import (
	"context"
	"fmt"
	"strings"

	"feedstack/internal/models"
)

// fetchRSS is the generic RSS/Atom adapter and the fallback for everything
// the dispatcher could not re-classify.
func (f *Fetcher) fetchRSS(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	feedURL := strings.TrimSpace(src.Options.RSS)
	if feedURL == "" {
		return src, nil, fmt.Errorf("%w: rss source needs a feed url", ErrInvalidOptions)
	}

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{RSS: feedURL}
	link := parsed.Link
	if link == "" {
		link = feedURL
	}
	out, items := f.normalize(ctx, out, models.TypeRSS, feedURL, parsed, link, "", nil)
	return out, items, nil
}
