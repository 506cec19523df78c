// Package scheduler decides which sources are due for a refresh and
// enqueues fetch jobs. It runs on a fixed cadence; every failure inside a
// cycle is logged and the rest of the cycle continues.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"feedstack/internal/metrics"
	"feedstack/internal/models"
	"feedstack/internal/queue"
)

const (
	// cadence between scheduling cycles.
	cadence = "@every 15m"

	profilePageSize = 1000

	// profileWindow keeps free profiles hot for a week after signup;
	// premium profiles are always scheduled.
	profileWindow = 7 * 24 * time.Hour

	// staleAfter is the general refresh threshold for a source.
	staleAfter = time.Hour

	// rateLimitedStaleAfter is the refresh threshold for rate-limited
	// providers on free-tier profiles. Protects shared API quota from
	// free-tier volume.
	rateLimitedStaleAfter = 24 * time.Hour
)

// deprecatedTypes are never enqueued again.
var deprecatedTypes = map[string]bool{
	models.TypeNitter: true,
}

// rateLimitedTypes have strict external quotas.
var rateLimitedTypes = map[string]bool{
	models.TypeReddit: true,
}

// SourceStore is the slice of the store the scheduler reads from.
type SourceStore interface {
	ListProfiles(ctx context.Context, createdAfter int64, page, pageSize int) ([]models.Profile, error)
	ListSources(ctx context.Context, userID string, updatedBefore int64) ([]models.Source, error)
}

// Scheduler pages through due profiles and pushes fetch jobs.
type Scheduler struct {
	store SourceStore
	jobs  queue.Enqueuer
	cron  *cron.Cron
}

// New creates a Scheduler over the given store and queue.
func New(store SourceStore, jobs queue.Enqueuer) *Scheduler {
	return &Scheduler{
		store: store,
		jobs:  jobs,
		cron:  cron.New(),
	}
}

// Run fires one cycle immediately, then every 15 minutes until ctx is
// cancelled. A failed cycle never stops the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(cadence, func() { s.runCycle(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	log.Infof("scheduler started, cadence %s", cadence)

	s.runCycle(ctx)

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	log.Info("scheduler stopped")
	return nil
}

// runCycle walks one page of profiles at a time and enqueues every admitted
// stale source. Store errors skip their unit (page or profile) and the
// cycle moves on.
func (s *Scheduler) runCycle(ctx context.Context) {
	now := time.Now()
	profileCreatedAfter := now.Add(-profileWindow).Unix()
	sourcesUpdatedBefore := now.Add(-staleAfter).Unix()

	var enqueued int
	for page := 0; ; page++ {
		profiles, err := s.store.ListProfiles(ctx, profileCreatedAfter, page, profilePageSize)
		if err != nil {
			log.Errorf("scheduler: list profiles page %d: %v", page, err)
			break
		}

		for _, profile := range profiles {
			sources, err := s.store.ListSources(ctx, profile.ID, sourcesUpdatedBefore)
			if err != nil {
				log.WithField("user_id", profile.ID).Errorf("scheduler: list sources: %v", err)
				continue
			}
			for _, source := range sources {
				if !admit(source, profile, now.Unix()) {
					continue
				}
				if err := s.jobs.Push(ctx, models.Job{Source: source, Profile: profile}); err != nil {
					log.WithFields(log.Fields{"source_id": source.ID, "user_id": profile.ID}).
						Errorf("scheduler: enqueue: %v", err)
					continue
				}
				metrics.JobsEnqueued.WithLabelValues(source.Type).Inc()
				enqueued++
			}
		}

		if len(profiles) < profilePageSize {
			break
		}
	}

	log.Infof("scheduler: cycle complete, %d job(s) enqueued", enqueued)
}

// admit applies the per-source admission policy. The caller has already
// filtered for the general 1 hour staleness threshold.
func admit(source models.Source, profile models.Profile, now int64) bool {
	if deprecatedTypes[source.Type] {
		return false
	}
	if rateLimitedTypes[source.Type] && profile.Tier != models.TierPremium {
		return source.UpdatedAt < now-int64(rateLimitedStaleAfter/time.Second)
	}
	return true
}
