package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"feedstack/internal/models"
)

// fetchStackOverflow handles Stack Overflow tag feeds.
func (f *Fetcher) fetchStackOverflow(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.StackOverflow)
	if option == "" {
		return src, nil, fmt.Errorf("%w: stackoverflow source needs a tag or feed url", ErrInvalidOptions)
	}

	feedURL := stackOverflowFeedURL(option)

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{StackOverflow: feedURL}
	link := parsed.Link
	if link == "" {
		link = "https://stackoverflow.com"
	}
	out, items := f.normalize(ctx, out, models.TypeStackOverflow, feedURL, parsed, link, "", nil)
	return out, items, nil
}

func stackOverflowFeedURL(option string) string {
	if strings.HasPrefix(option, "http") {
		return option
	}
	tag := strings.TrimPrefix(strings.Trim(option, "/"), "#")
	return "https://stackoverflow.com/feeds/tag?tagnames=" + url.QueryEscape(tag) + "&sort=newest"
}
