// Package icons caches source icons in blob storage so the product does not
// hotlink remote favicons forever.
package icons

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Storage is the blob-storage contract. An upload failure is not fatal to a
// fetch; the caller keeps the remote icon URL instead.
type Storage interface {
	// UploadFromURL downloads srcURL and stores it under bucket/targetKey,
	// returning the stored path relative to the bucket.
	UploadFromURL(ctx context.Context, bucket, srcURL, targetKey string) (string, error)
}

// LocalStorage stores icons on the local file system under a base directory.
type LocalStorage struct {
	basePath string
	client   *http.Client
}

// NewLocalStorage creates a LocalStorage rooted at basePath.
func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{
		basePath: basePath,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// UploadFromURL fetches srcURL and writes it to <basePath>/<bucket>/<targetKey>.
func (s *LocalStorage) UploadFromURL(ctx context.Context, bucket, srcURL, targetKey string) (string, error) {
	if bucket == "" || targetKey == "" {
		return "", fmt.Errorf("bucket and targetKey cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build icon request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download icon %s: %w", srcURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("icon download %s returned status %d", srcURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read icon body: %w", err)
	}

	fullPath := filepath.Join(s.basePath, bucket, filepath.FromSlash(targetKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create icon directory: %w", err)
	}
	if err := os.WriteFile(fullPath, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write icon file: %w", err)
	}

	return targetKey, nil
}
