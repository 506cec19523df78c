package feed

import (
	"context"
	"fmt"
	"strings"

	"feedstack/internal/models"
)

// fetchMastodon handles Mastodon accounts and hashtags via the .rss feeds
// every instance serves. Bare handles and hashtags resolve against the
// configured default instance; "@user@instance" handles carry their own.
func (f *Fetcher) fetchMastodon(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.Mastodon)
	if option == "" {
		return src, nil, fmt.Errorf("%w: mastodon source needs a handle, hashtag or url", ErrInvalidOptions)
	}

	feedURL := f.mastodonFeedURL(option)

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{Mastodon: feedURL}
	link := strings.TrimSuffix(feedURL, ".rss")
	if parsed.Link != "" {
		link = parsed.Link
	}
	out, items := f.normalize(ctx, out, models.TypeMastodon, feedURL, parsed, link, "", nil)
	return out, items, nil
}

func (f *Fetcher) mastodonFeedURL(option string) string {
	if strings.HasPrefix(option, "http") {
		if !strings.HasSuffix(option, ".rss") {
			return option + ".rss"
		}
		return option
	}
	if strings.HasPrefix(option, "#") {
		return f.mastodonInstance + "/tags/" + strings.TrimPrefix(option, "#") + ".rss"
	}

	handle := strings.TrimPrefix(option, "@")
	if i := strings.Index(handle, "@"); i > 0 {
		return "https://" + handle[i+1:] + "/@" + handle[:i] + ".rss"
	}
	return f.mastodonInstance + "/@" + handle + ".rss"
}
