package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

// resolveIcon finds an icon URL for a newly added source: the feed's own
// image first, then the site's declared favicon, then /favicon.ico.
func (f *Fetcher) resolveIcon(ctx context.Context, parsed *gofeed.Feed, pageURL string) string {
	if parsed != nil {
		if parsed.Image != nil && parsed.Image.URL != "" {
			return parsed.Image.URL
		}
		if parsed.ITunesExt != nil && parsed.ITunesExt.Image != "" {
			return parsed.ITunesExt.Image
		}
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	root := u.Scheme + "://" + u.Host

	if body, err := f.get(ctx, root+"/"); err == nil {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			sel := doc.Find(`link[rel="icon"], link[rel="shortcut icon"], link[rel="apple-touch-icon"]`).First()
			if href, ok := sel.Attr("href"); ok && href != "" {
				if abs, err := u.Parse(href); err == nil {
					return abs.String()
				}
			}
		}
	}
	return root + "/favicon.ico"
}

// cacheIcon uploads the icon to blob storage keyed by user and source. An
// upload failure degrades to keeping the remote URL.
func (f *Fetcher) cacheIcon(ctx context.Context, userID, sourceID, iconURL string) string {
	if f.icons == nil {
		return iconURL
	}

	ext := ".png"
	if u, err := url.Parse(iconURL); err == nil {
		if e := path.Ext(u.Path); e != "" && len(e) <= 5 && !strings.ContainsAny(e, "?&") {
			ext = e
		}
	}

	key := fmt.Sprintf("%s/%s%s", userID, sourceID, ext)
	stored, err := f.icons.UploadFromURL(ctx, f.iconBucket, iconURL, key)
	if err != nil {
		log.WithFields(log.Fields{"source_id": sourceID, "user_id": userID}).
			Warnf("icon upload failed, keeping remote url: %v", err)
		return iconURL
	}
	return stored
}
