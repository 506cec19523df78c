// Package store is the client for the durable source store: profiles,
// sources and items. All writes are upserts keyed by deterministic ids, so
// concurrent workers can safely persist the same source twice.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // The database driver

	"feedstack/internal/models"
)

// Store wraps the database handle. It is constructed once at startup and
// passed to the scheduler and worker.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing handle. Used by tests.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListProfiles returns one page of profiles that are either premium or were
// created after createdAfter, ordered by creation time. Paging stops when a
// page comes back shorter than pageSize.
func (s *Store) ListProfiles(ctx context.Context, createdAfter int64, page, pageSize int) ([]models.Profile, error) {
	query := `
		SELECT id, tier, created_at
		FROM profiles
		WHERE tier = 'premium' OR created_at > $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	var profiles []models.Profile
	err := s.db.SelectContext(ctx, &profiles, query, createdAfter, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// ListSources returns the user's sources that have not been refreshed since
// updatedBefore.
func (s *Store) ListSources(ctx context.Context, userID string, updatedBefore int64) ([]models.Source, error) {
	query := `
		SELECT id, user_id, column_id, type, options, title, link, icon, updated_at
		FROM sources
		WHERE user_id = $1 AND updated_at < $2
	`
	var sources []models.Source
	err := s.db.SelectContext(ctx, &sources, query, userID, updatedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources for user %s: %w", userID, err)
	}
	return sources, nil
}

// UpsertSource inserts the source or refreshes its mutable columns. The id
// is deterministic, so re-adding the same logical feed lands on the same row.
func (s *Store) UpsertSource(ctx context.Context, source models.Source) error {
	query := `
		INSERT INTO sources (id, user_id, column_id, type, options, title, link, icon, updated_at)
		VALUES (:id, :user_id, :column_id, :type, :options, :title, :link, :icon, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			options = EXCLUDED.options,
			title = EXCLUDED.title,
			link = EXCLUDED.link,
			icon = EXCLUDED.icon,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.NamedExecContext(ctx, query, source); err != nil {
		return fmt.Errorf("failed to upsert source %s: %w", source.ID, err)
	}
	return nil
}

// UpsertItems bulk-inserts items inside one transaction. Items are immutable
// once created, so conflicts on the content-addressed id are ignored.
func (s *Store) UpsertItems(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin items transaction: %w", err)
	}
	query := `
		INSERT INTO items (id, user_id, column_id, source_id, title, link, description, author, media, published_at)
		VALUES (:id, :user_id, :column_id, :source_id, :title, :link, :description, :author, :media, :published_at)
		ON CONFLICT (id) DO NOTHING
	`
	for _, item := range items {
		if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert item %s: %w", item.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items transaction: %w", err)
	}
	return nil
}
