package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"feedstack/internal/models"
)

// fetchTumblr handles Tumblr blogs via their /rss endpoint.
func (f *Fetcher) fetchTumblr(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.Tumblr)
	if option == "" {
		return src, nil, fmt.Errorf("%w: tumblr source needs a blog name or url", ErrInvalidOptions)
	}

	feedURL, err := tumblrFeedURL(option)
	if err != nil {
		return src, nil, err
	}

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{Tumblr: feedURL}
	link := strings.TrimSuffix(feedURL, "/rss")
	if parsed.Link != "" {
		link = parsed.Link
	}
	out, items := f.normalize(ctx, out, models.TypeTumblr, feedURL, parsed, link, "", nil)
	return out, items, nil
}

func tumblrFeedURL(option string) (string, error) {
	if strings.HasPrefix(option, "http") {
		u, err := url.Parse(option)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		return u.Scheme + "://" + u.Host + "/rss", nil
	}
	host := strings.Trim(option, "/")
	if !strings.Contains(host, ".") {
		host += ".tumblr.com"
	}
	return "https://" + host + "/rss", nil
}
