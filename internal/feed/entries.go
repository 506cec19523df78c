package feed

import (
	"context"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"feedstack/internal/models"
)

// maxEntries is how many entries of a feed are considered per fetch. The
// surrounding system retains only the most recent 50 items per source.
const maxEntries = 50

// staleSkewSeconds tolerates small clock and ordering jitter between the
// provider and our own fetch timestamps. An entry published further than
// this before the last successful fetch has already been seen.
const staleSkewSeconds = 10

var sanitizer = bluemonday.UGCPolicy()

var imgPattern = regexp.MustCompile(`<img[^>]+src="(https://[^"]+)"`)

// spamVocabulary is the fixed list of financial-scam terms the title
// heuristic scores against.
var spamVocabulary = []string{
	"airdrop", "altcoin", "bet now", "binary options", "bitcoin",
	"blockchain", "bonus code", "casino", "crypto", "defi",
	"double your", "earn money", "ethereum", "forex", "free money",
	"free spins", "gambling", "get rich", "guaranteed profit", "hodl",
	"investment plan", "jackpot", "lottery", "make money fast", "memecoin",
	"mining pool", "no deposit", "passive income", "presale", "pump and dump",
	"signals group", "slots", "token sale", "trading bot", "win big",
}

// spamScore counts how many distinct vocabulary terms appear in the title.
func spamScore(title string) int {
	lower := strings.ToLower(title)
	return lo.CountBy(spamVocabulary, func(term string) bool {
		return strings.Contains(lower, term)
	})
}

func isSpam(title string) bool {
	return spamScore(title) >= 3
}

// seenBefore reports whether the entry was published before the source's
// last successful fetch, with staleSkewSeconds of tolerance. Publication at
// exactly updatedAt-staleSkewSeconds still counts as new.
func seenBefore(publishedAt, updatedAt int64) bool {
	return publishedAt < updatedAt-staleSkewSeconds
}

// entryLink returns the entry's usable link, if any.
func entryLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}
	for _, l := range entry.Links {
		if l != "" {
			return l
		}
	}
	return ""
}

// entryPublished returns the publication time, falling back to the update
// time for feeds that only carry <updated>.
func entryPublished(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

// entryDescription prefers rich content over the summary. Both come back
// sanitized and HTML-entity-unescaped.
func entryDescription(entry *gofeed.Item) string {
	raw := entry.Content
	if raw == "" {
		raw = entry.Description
	}
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(raw)))
}

func entryAuthor(entry *gofeed.Item) *string {
	if entry.Author != nil && entry.Author.Name != "" {
		name := entry.Author.Name
		return &name
	}
	return nil
}

// entryMedia extracts a single representative image: the first https <img>
// inside content or description, then media:thumbnail, then an image
// enclosure, then the entry's own image.
func entryMedia(entry *gofeed.Item) *string {
	for _, raw := range []string{entry.Content, entry.Description} {
		if m := imgPattern.FindStringSubmatch(raw); m != nil {
			return &m[1]
		}
	}
	if thumbs := entry.Extensions["media"]["thumbnail"]; len(thumbs) > 0 {
		if u := thumbs[0].Attrs["url"]; u != "" {
			return &u
		}
	}
	for _, enc := range entry.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			u := enc.URL
			return &u
		}
	}
	if entry.Image != nil && entry.Image.URL != "" {
		u := entry.Image.URL
		return &u
	}
	return nil
}

// entriesToItems runs the shared entry admission algorithm. src must carry
// its final id but its pre-fetch UpdatedAt, so the staleness filter compares
// against the previous successful fetch. mediaFn, when non-nil, lets an
// adapter supply provider-specific media ahead of the generic extraction.
func entriesToItems(src models.Source, entries []*gofeed.Item, mediaFn func(*gofeed.Item) *string) []models.Item {
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	var items []models.Item
	for _, entry := range entries {
		if entry == nil || entry.Title == "" {
			continue
		}
		link := entryLink(entry)
		if link == "" {
			continue
		}
		published := entryPublished(entry)
		if published == nil {
			continue
		}
		publishedAt := published.Unix()
		if seenBefore(publishedAt, src.UpdatedAt) {
			continue
		}
		if isSpam(entry.Title) {
			continue
		}

		key := entry.GUID
		if key == "" {
			key = link
		}

		var media *string
		if mediaFn != nil {
			media = mediaFn(entry)
		}
		if media == nil {
			media = entryMedia(entry)
		}

		items = append(items, models.Item{
			ID:          ItemID(src.ID, key),
			UserID:      src.UserID,
			ColumnID:    src.ColumnID,
			SourceID:    src.ID,
			Title:       html.UnescapeString(entry.Title),
			Link:        link,
			Description: entryDescription(entry),
			Author:      entryAuthor(entry),
			Media:       media,
			PublishedAt: publishedAt,
		})
	}
	return items
}

// normalize is the shared tail of every adapter: derive the stable id on
// first fetch, admit entries against the pre-fetch UpdatedAt, cache the icon
// for new sources, and refresh the always-refreshed fields.
func (f *Fetcher) normalize(ctx context.Context, src models.Source, sourceType, canonicalKey string, parsed *gofeed.Feed, link, iconURL string, mediaFn func(*gofeed.Item) *string) (models.Source, []models.Item) {
	out := src
	wasNew := out.ID == ""
	if wasNew {
		out.ID = SourceID(sourceType, out.UserID, out.ColumnID, canonicalKey)
	}

	items := entriesToItems(out, parsed.Items, mediaFn)

	out.Type = sourceType
	out.Title = parsed.Title
	out.Link = link
	if wasNew {
		if iconURL == "" {
			iconURL = f.resolveIcon(ctx, parsed, link)
		}
		if iconURL != "" {
			stored := f.cacheIcon(ctx, out.UserID, out.ID, iconURL)
			out.Icon = &stored
		}
	} else if out.Icon == nil && iconURL != "" {
		out.Icon = &iconURL
	}
	out.UpdatedAt = time.Now().Unix()
	return out, items
}
