package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"feedstack/internal/models"
)

// fetchGoogleNews handles Google News search feeds. The option is either a
// search term or a full news.google.com RSS URL.
func (f *Fetcher) fetchGoogleNews(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.GoogleNews)
	if option == "" {
		return src, nil, fmt.Errorf("%w: googlenews source needs a search term or url", ErrInvalidOptions)
	}

	feedURL := googleNewsFeedURL(option)

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{GoogleNews: feedURL}
	link := parsed.Link
	if link == "" {
		link = "https://news.google.com"
	}
	out, items := f.normalize(ctx, out, models.TypeGoogleNews, feedURL, parsed, link, "", nil)
	return out, items, nil
}

func googleNewsFeedURL(option string) string {
	if strings.HasPrefix(option, "http") && strings.Contains(option, "news.google.com") {
		return option
	}
	return "https://news.google.com/rss/search?q=" + url.QueryEscape(option) + "&hl=en-US&gl=US&ceid=US:en"
}
