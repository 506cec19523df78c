package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"feedstack/internal/models"
)

// fetchReddit handles subreddits and user pages via reddit's public Atom
// feeds. Reddit enforces strict per-IP quotas on these endpoints, which is
// why the scheduler slows free-tier refreshes of this provider down to once
// a day.
func (f *Fetcher) fetchReddit(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.Reddit)
	if option == "" {
		return src, nil, fmt.Errorf("%w: reddit source needs a subreddit, user or url", ErrInvalidOptions)
	}

	feedURL, err := redditFeedURL(option)
	if err != nil {
		return src, nil, err
	}

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{Reddit: feedURL}
	link := strings.TrimSuffix(feedURL, "/.rss")
	if parsed.Link != "" {
		link = parsed.Link
	}
	out, items := f.normalize(ctx, out, models.TypeReddit, feedURL, parsed, link, "", nil)
	return out, items, nil
}

// redditFeedURL canonicalizes "r/golang", "/u/name" or any reddit URL to
// the matching .rss endpoint.
func redditFeedURL(option string) (string, error) {
	p := option
	if strings.HasPrefix(option, "http") {
		u, err := url.Parse(option)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		p = u.Path
	}
	p = "/" + strings.Trim(p, "/")
	p = strings.TrimSuffix(p, "/.rss")
	p = strings.TrimSuffix(p, ".rss")
	if strings.HasPrefix(p, "/u/") {
		p = "/user/" + strings.TrimPrefix(p, "/u/")
	}
	if p == "/" {
		return "", fmt.Errorf("%w: empty reddit path", ErrInvalidOptions)
	}
	return "https://www.reddit.com" + p + "/.rss", nil
}
