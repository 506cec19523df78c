package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"feedstack/internal/models"
)

// fetchPodcast handles podcast RSS feeds. Episode artwork comes from the
// iTunes extension when the generic extraction finds nothing.
func (f *Fetcher) fetchPodcast(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	feedURL := strings.TrimSpace(src.Options.Podcast)
	if feedURL == "" {
		return src, nil, fmt.Errorf("%w: podcast source needs a feed url", ErrInvalidOptions)
	}

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{Podcast: feedURL}
	link := parsed.Link
	if link == "" {
		link = feedURL
	}
	out, items := f.normalize(ctx, out, models.TypePodcast, feedURL, parsed, link, "", podcastMedia)
	return out, items, nil
}

func podcastMedia(entry *gofeed.Item) *string {
	if entry.ITunesExt != nil && entry.ITunesExt.Image != "" {
		u := entry.ITunesExt.Image
		return &u
	}
	return nil
}
