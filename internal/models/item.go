package models

// Item is one normalized feed entry. Its ID is content-addressed (a hash of
// the source id plus the entry identifier), so fetching the same entry twice
// re-derives the same row and the upsert is idempotent. Items are never
// mutated by the pipeline after creation.
type Item struct {
	ID          string  `db:"id" json:"id"`
	UserID      string  `db:"user_id" json:"userId"`
	ColumnID    string  `db:"column_id" json:"columnId"`
	SourceID    string  `db:"source_id" json:"sourceId"`
	Title       string  `db:"title" json:"title"`
	Link        string  `db:"link" json:"link"`
	Description string  `db:"description" json:"description"`
	Author      *string `db:"author" json:"author,omitempty"`
	Media       *string `db:"media" json:"media,omitempty"`
	PublishedAt int64   `db:"published_at" json:"publishedAt"`
}
