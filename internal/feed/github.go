package feed

import (
	"context"
	"fmt"
	"strings"

	"feedstack/internal/models"
)

// fetchGithub handles GitHub's public Atom feeds: user activity, repository
// commits, releases and tags.
func (f *Fetcher) fetchGithub(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	option := strings.TrimSpace(src.Options.Github)
	if option == "" {
		return src, nil, fmt.Errorf("%w: github source needs a user, repository or feed url", ErrInvalidOptions)
	}

	feedURL, err := githubFeedURL(option)
	if err != nil {
		return src, nil, err
	}

	parsed, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return src, nil, err
	}

	out := src
	out.Options = models.Options{Github: feedURL}
	link := strings.TrimSuffix(feedURL, ".atom")
	if parsed.Link != "" {
		link = parsed.Link
	}
	out, items := f.normalize(ctx, out, models.TypeGithub, feedURL, parsed, link, "", nil)
	return out, items, nil
}

// githubFeedURL maps "owner", "owner/repo" and "owner/repo/releases" style
// options to the matching .atom endpoint. Full URLs (including tokenized
// private feeds) pass through unchanged.
func githubFeedURL(option string) (string, error) {
	if strings.HasPrefix(option, "http") {
		return option, nil
	}

	parts := strings.Split(strings.Trim(option, "/"), "/")
	switch len(parts) {
	case 1:
		return "https://github.com/" + parts[0] + ".atom", nil
	case 2:
		return "https://github.com/" + parts[0] + "/" + parts[1] + "/commits.atom", nil
	case 3:
		switch parts[2] {
		case "commits", "releases", "tags":
			return "https://github.com/" + parts[0] + "/" + parts[1] + "/" + parts[2] + ".atom", nil
		}
	}
	return "", fmt.Errorf("%w: unsupported github option %q", ErrInvalidOptions, option)
}
