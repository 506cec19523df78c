package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"feedstack/internal/models"
)

// nitterDateLayout matches the title attribute of a timeline tweet date.
const nitterDateLayout = "Jan 2, 2006 · 3:04 PM UTC"

// fetchNitter scrapes a Nitter profile timeline. The provider is deprecated
// and the scheduler never enqueues it anymore, but jobs already in the queue
// and manual dispatches still resolve, so the adapter stays functional.
func (f *Fetcher) fetchNitter(ctx context.Context, src models.Source, _ models.Profile) (models.Source, []models.Item, error) {
	handle := strings.TrimPrefix(strings.TrimSpace(src.Options.Nitter), "@")
	if handle == "" {
		return src, nil, fmt.Errorf("%w: nitter source needs a handle", ErrInvalidOptions)
	}

	pageURL := f.nitterInstance + "/" + handle
	body, err := f.get(ctx, pageURL)
	if err != nil {
		return src, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return src, nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}
	if doc.Find(".profile-card").Length() == 0 {
		return src, nil, fmt.Errorf("%w: no profile found at %s", ErrInvalidFeed, pageURL)
	}

	title := strings.TrimSpace(doc.Find(".profile-card-fullname").First().Text())
	if title == "" {
		title = "@" + handle
	}

	var entries []*gofeed.Item
	doc.Find(".timeline-item").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.Find(".tweet-content").Text())
		href, _ := s.Find("a.tweet-link").Attr("href")
		dateTitle, _ := s.Find(".tweet-date a").Attr("title")
		published, err := time.Parse(nitterDateLayout, dateTitle)
		if content == "" || href == "" || err != nil {
			return
		}

		entry := &gofeed.Item{
			Title:           content,
			Link:            f.nitterInstance + href,
			GUID:            href,
			PublishedParsed: &published,
		}
		if img, ok := s.Find(".attachments img").First().Attr("src"); ok && img != "" {
			entry.Image = &gofeed.Image{URL: f.absoluteNitterURL(img)}
		}
		entries = append(entries, entry)
	})

	avatar, _ := doc.Find(".profile-card-avatar img").First().Attr("src")
	if avatar != "" {
		avatar = f.absoluteNitterURL(avatar)
	}

	parsed := &gofeed.Feed{Title: title, Link: pageURL, Items: entries}

	out := src
	out.Options = models.Options{Nitter: handle}
	out, items := f.normalize(ctx, out, models.TypeNitter, strings.ToLower(handle), parsed, pageURL, avatar, nil)
	return out, items, nil
}

func (f *Fetcher) absoluteNitterURL(ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return f.nitterInstance + "/" + strings.TrimPrefix(ref, "/")
}
