// Package feed holds the provider adapters and the dispatcher that routes a
// source to the right one. Every adapter is a pure normalization step: raw
// provider data in, (Source, []Item) out. Adapters keep no state of their
// own; the only side effect is the optional icon upload on a source's first
// fetch.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"feedstack/internal/icons"
	"feedstack/internal/models"
)

// Job-local error taxonomy. None of these ever stop the pipeline; the worker
// logs them and moves to the next job.
var (
	ErrInvalidOptions    = errors.New("invalid source options")
	ErrFetchFailed       = errors.New("fetch failed")
	ErrInvalidFeed       = errors.New("invalid feed")
	ErrInvalidSourceType = errors.New("invalid source type")
)

// Adapter normalizes one provider's raw feed for one source.
type Adapter func(ctx context.Context, source models.Source, profile models.Profile) (models.Source, []models.Item, error)

// Config carries the collaborators a Fetcher needs.
type Config struct {
	// Timeout bounds every outbound fetch. Defaults to 5s.
	Timeout time.Duration
	// Icons is the blob store for cached source icons. May be nil, in which
	// case remote icon URLs are kept as-is.
	Icons      icons.Storage
	IconBucket string
	// MastodonInstance resolves bare handles and hashtags.
	MastodonInstance string
	// NitterInstance hosts the deprecated scraping-based provider.
	NitterInstance string
}

// Fetcher owns the adapter registry and the shared HTTP client.
type Fetcher struct {
	client           *http.Client
	limiter          *rate.Limiter
	icons            icons.Storage
	iconBucket       string
	mastodonInstance string
	nitterInstance   string
	adapters         map[string]Adapter
}

// New builds a Fetcher with all provider adapters registered.
func New(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	f := &Fetcher{
		client:           &http.Client{Timeout: timeout},
		limiter:          rate.NewLimiter(rate.Limit(5), 10),
		icons:            cfg.Icons,
		iconBucket:       cfg.IconBucket,
		mastodonInstance: strings.TrimSuffix(cfg.MastodonInstance, "/"),
		nitterInstance:   strings.TrimSuffix(cfg.NitterInstance, "/"),
	}
	f.adapters = map[string]Adapter{
		models.TypeGithub:        f.fetchGithub,
		models.TypeGoogleNews:    f.fetchGoogleNews,
		models.TypeMastodon:      f.fetchMastodon,
		models.TypeMedium:        f.fetchMedium,
		models.TypeNitter:        f.fetchNitter,
		models.TypePodcast:       f.fetchPodcast,
		models.TypeReddit:        f.fetchReddit,
		models.TypeRSS:           f.fetchRSS,
		models.TypeStackOverflow: f.fetchStackOverflow,
		models.TypeTumblr:        f.fetchTumblr,
		models.TypeYoutube:       f.fetchYoutube,
	}
	return f
}

// Dispatch routes a source to its adapter by declared type. Generic "rss"
// sources whose URL belongs to a more specific provider are re-classified
// first; any failure of that attempt falls through to plain RSS handling.
func (f *Fetcher) Dispatch(ctx context.Context, source models.Source, profile models.Profile) (models.Source, []models.Item, error) {
	if source.Type == models.TypeRSS {
		if updated, items, ok := f.reclassify(ctx, source, profile); ok {
			return updated, items, nil
		}
	}
	adapter, ok := f.adapters[source.Type]
	if !ok {
		return source, nil, fmt.Errorf("%w: %q", ErrInvalidSourceType, source.Type)
	}
	return adapter(ctx, source, profile)
}

// reclassify re-routes an "rss" source to a provider adapter when its URL
// host gives the provider away. Best effort only: on any error the caller
// proceeds with generic RSS parsing.
func (f *Fetcher) reclassify(ctx context.Context, source models.Source, profile models.Profile) (models.Source, []models.Item, bool) {
	u, err := url.Parse(strings.TrimSpace(source.Options.RSS))
	if err != nil || u.Hostname() == "" {
		return source, nil, false
	}
	host := strings.ToLower(u.Hostname())

	redirected := source
	redirected.Options = models.Options{}
	switch {
	case host == "medium.com" || strings.HasSuffix(host, ".medium.com"):
		redirected.Type = models.TypeMedium
		redirected.Options.Medium = source.Options.RSS
	case host == "reddit.com" || strings.HasSuffix(host, ".reddit.com"):
		redirected.Type = models.TypeReddit
		redirected.Options.Reddit = source.Options.RSS
	case strings.HasSuffix(host, ".tumblr.com"):
		redirected.Type = models.TypeTumblr
		redirected.Options.Tumblr = source.Options.RSS
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		redirected.Type = models.TypeYoutube
		redirected.Options.Youtube = source.Options.RSS
	default:
		return source, nil, false
	}

	updated, items, err := f.adapters[redirected.Type](ctx, redirected, profile)
	if err != nil {
		return source, nil, false
	}
	return updated, items, true
}
