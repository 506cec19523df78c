package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedstack/internal/models"
)

func testSource(updatedAt int64) models.Source {
	return models.Source{
		ID:        "rss-abc123",
		UserID:    "user-1",
		ColumnID:  "col-1",
		Type:      models.TypeRSS,
		UpdatedAt: updatedAt,
	}
}

func entryAt(title, link string, published time.Time) *gofeed.Item {
	return &gofeed.Item{
		Title:           title,
		Link:            link,
		PublishedParsed: &published,
	}
}

func TestEntriesToItemsConsidersOnlyFirstFifty(t *testing.T) {
	now := time.Now()
	var entries []*gofeed.Item
	for i := 0; i < 60; i++ {
		entries = append(entries, entryAt(
			fmt.Sprintf("Entry %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			now,
		))
	}

	items := entriesToItems(testSource(0), entries, nil)

	require.Len(t, items, 50)
	assert.Equal(t, "Entry 0", items[0].Title)
	assert.Equal(t, "Entry 49", items[49].Title)
}

func TestEntriesToItemsSkipsIncompleteEntries(t *testing.T) {
	now := time.Now()
	entries := []*gofeed.Item{
		entryAt("", "https://example.com/1", now),
		entryAt("No link", "", now),
		{Title: "No published", Link: "https://example.com/2"},
		entryAt("Complete", "https://example.com/3", now),
	}

	items := entriesToItems(testSource(0), entries, nil)

	require.Len(t, items, 1)
	assert.Equal(t, "Complete", items[0].Title)
}

func TestEntriesToItemsStalenessBoundary(t *testing.T) {
	updatedAt := time.Now().Unix()

	cases := []struct {
		name   string
		offset int64
		kept   bool
	}{
		{"one second after", +1, true},
		{"five seconds before", -5, true},
		{"exactly at tolerance", -10, true},
		{"past tolerance", -11, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			published := time.Unix(updatedAt+tc.offset, 0)
			items := entriesToItems(testSource(updatedAt), []*gofeed.Item{
				entryAt("Entry", "https://example.com/1", published),
			}, nil)
			if tc.kept {
				assert.Len(t, items, 1)
			} else {
				assert.Empty(t, items)
			}
		})
	}
}

func TestEntriesToItemsSpamFilter(t *testing.T) {
	now := time.Now()

	spam := entryAt("Bitcoin forex jackpot inside", "https://example.com/spam", now)
	borderline := entryAt("Bitcoin and forex explained", "https://example.com/ok", now)

	items := entriesToItems(testSource(0), []*gofeed.Item{spam, borderline}, nil)

	require.Len(t, items, 1)
	assert.Equal(t, "https://example.com/ok", items[0].Link)
}

func TestSpamScoreCountsDistinctTerms(t *testing.T) {
	assert.Equal(t, 0, spamScore("Weekly engineering notes"))
	assert.Equal(t, 2, spamScore("Crypto casino review"))
	assert.Equal(t, 3, spamScore("CRYPTO CASINO JACKPOT"))
}

func TestEntriesToItemsStableIDs(t *testing.T) {
	now := time.Now()
	entries := []*gofeed.Item{
		{Title: "With guid", Link: "https://example.com/1", GUID: "guid-1", PublishedParsed: &now},
		{Title: "Without guid", Link: "https://example.com/2", PublishedParsed: &now},
	}

	first := entriesToItems(testSource(0), entries, nil)
	second := entriesToItems(testSource(0), entries, nil)

	require.Len(t, first, 2)
	assert.Equal(t, ItemID("rss-abc123", "guid-1"), first[0].ID)
	assert.Equal(t, ItemID("rss-abc123", "https://example.com/2"), first[1].ID)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
}

func TestEntryDescriptionPrefersContent(t *testing.T) {
	now := time.Now()
	entry := entryAt("Entry", "https://example.com/1", now)
	entry.Description = "summary"
	entry.Content = "<p>rich &amp; full</p>"

	assert.Equal(t, "<p>rich & full</p>", entryDescription(entry))

	entry.Content = ""
	assert.Equal(t, "summary", entryDescription(entry))
}

func TestEntryDescriptionStripsUnsafeMarkup(t *testing.T) {
	entry := &gofeed.Item{Content: `<p>hello</p><script>alert(1)</script>`}
	assert.Equal(t, "<p>hello</p>", entryDescription(entry))
}

func TestEntryMediaFirstHTTPSImage(t *testing.T) {
	entry := &gofeed.Item{
		Content: `text <img alt="x" src="https://img.example.com/a.jpg"> <img src="https://img.example.com/b.jpg">`,
	}
	media := entryMedia(entry)
	require.NotNil(t, media)
	assert.Equal(t, "https://img.example.com/a.jpg", *media)

	// Plain http images are not picked up.
	entry = &gofeed.Item{Content: `<img src="http://img.example.com/a.jpg">`}
	assert.Nil(t, entryMedia(entry))
}
