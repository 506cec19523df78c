package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Provider tags. Each tag has exactly one adapter and exactly one options
// field.
const (
	TypeGithub        = "github"
	TypeGoogleNews    = "googlenews"
	TypeMastodon      = "mastodon"
	TypeMedium        = "medium"
	TypeNitter        = "nitter"
	TypePodcast       = "podcast"
	TypeReddit        = "reddit"
	TypeRSS           = "rss"
	TypeStackOverflow = "stackoverflow"
	TypeTumblr        = "tumblr"
	TypeYoutube       = "youtube"
)

// Options carries the provider-specific configuration of a source. Exactly
// one field is set, matching the source's type.
type Options struct {
	Github        string `json:"github,omitempty"`
	GoogleNews    string `json:"googlenews,omitempty"`
	Mastodon      string `json:"mastodon,omitempty"`
	Medium        string `json:"medium,omitempty"`
	Nitter        string `json:"nitter,omitempty"`
	Podcast       string `json:"podcast,omitempty"`
	Reddit        string `json:"reddit,omitempty"`
	RSS           string `json:"rss,omitempty"`
	StackOverflow string `json:"stackoverflow,omitempty"`
	Tumblr        string `json:"tumblr,omitempty"`
	Youtube       string `json:"youtube,omitempty"`
}

// Value stores Options as JSONB.
func (o Options) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan reads Options back from JSONB.
func (o *Options) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = Options{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Options", src)
	}
}

// Source is one followed feed belonging to one user/column. ID is empty
// until the first successful fetch, after which it is a stable hash of
// (type, userId, columnId, canonical options), so re-adding the same logical
// feed never creates a duplicate.
type Source struct {
	ID        string  `db:"id" json:"id"`
	UserID    string  `db:"user_id" json:"userId"`
	ColumnID  string  `db:"column_id" json:"columnId"`
	Type      string  `db:"type" json:"type"`
	Options   Options `db:"options" json:"options"`
	Title     string  `db:"title" json:"title"`
	Link      string  `db:"link" json:"link"`
	Icon      *string `db:"icon" json:"icon,omitempty"`
	UpdatedAt int64   `db:"updated_at" json:"updatedAt"`
}
