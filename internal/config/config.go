// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the ingestion pipeline.
type Config struct {
	DatabaseURL string
	RedisURL    string

	// OpsAddr is where /healthz and /metrics are served.
	OpsAddr string

	// IconDir is the base directory of the local icon blob store.
	IconDir string
	// IconBucket is the bucket name icons are uploaded under.
	IconBucket string

	FetchTimeout     time.Duration
	MastodonInstance string
	NitterInstance   string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opsAddr := os.Getenv("FEEDSTACK_ADDR")
	if opsAddr == "" {
		opsAddr = ":8090"
	}

	iconDir := os.Getenv("ICON_DIR")
	if iconDir == "" {
		iconDir = "_icons"
	}

	iconBucket := os.Getenv("ICON_BUCKET")
	if iconBucket == "" {
		iconBucket = "source-icons"
	}

	fetchTimeout := 5 * time.Second
	if s := os.Getenv("FETCH_TIMEOUT_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		fetchTimeout = time.Duration(v) * time.Second
	}

	mastodon := os.Getenv("MASTODON_INSTANCE")
	if mastodon == "" {
		mastodon = "https://mastodon.social"
	}

	nitter := os.Getenv("NITTER_INSTANCE")
	if nitter == "" {
		nitter = "https://nitter.net"
	}

	return &Config{
		DatabaseURL:      dbURL,
		RedisURL:         redisURL,
		OpsAddr:          opsAddr,
		IconDir:          iconDir,
		IconBucket:       iconBucket,
		FetchTimeout:     fetchTimeout,
		MastodonInstance: mastodon,
		NitterInstance:   nitter,
	}, nil
}
