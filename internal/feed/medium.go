package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"feedstack/internal/models"
)

// fetchMedium handles Medium users, tags and publications through Medium's
// /feed/ endpoints.
func (f *Fetcher) fetchMedium(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.Medium)
	if option == "" {
		return src, nil, fmt.Errorf("%w: medium source needs a user, tag, publication or url", ErrInvalidOptions)
	}

	feedURL, err := mediumFeedURL(option)
	if err != nil {
		return src, nil, err
	}

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{Medium: feedURL}
	link := parsed.Link
	if link == "" {
		link = strings.Replace(feedURL, "/feed/", "/", 1)
	}
	out, items := f.normalize(ctx, out, models.TypeMedium, feedURL, parsed, link, "", nil)
	return out, items, nil
}

func mediumFeedURL(option string) (string, error) {
	if strings.HasPrefix(option, "http") {
		u, err := url.Parse(option)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		if strings.HasPrefix(u.Path, "/feed") {
			return option, nil
		}
		return u.Scheme + "://" + u.Host + "/feed" + strings.TrimSuffix(u.Path, "/"), nil
	}
	if strings.HasPrefix(option, "@") {
		return "https://medium.com/feed/" + option, nil
	}
	if strings.HasPrefix(option, "#") {
		return "https://medium.com/feed/tag/" + strings.TrimPrefix(option, "#"), nil
	}
	// Publication name.
	return "https://medium.com/feed/" + strings.Trim(option, "/"), nil
}
