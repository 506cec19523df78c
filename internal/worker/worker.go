// Package worker drains the job queue and executes fetches. One bad source
// never halts ingestion for others: every job-local error is logged with the
// source and profile identifiers and the loop moves on. Running several
// workers against the same queue is the intended scale-out mechanism; jobs
// are independent and idempotent, so no cross-worker coordination is needed.
package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"feedstack/internal/metrics"
	"feedstack/internal/models"
)

// popTimeout is effectively "block until a job shows up"; it only exists so
// the loop periodically re-checks for shutdown even on an idle queue.
const popTimeout = 1000 * time.Minute

// JobQueue is the consumer side of the queue.
type JobQueue interface {
	BlockingPop(ctx context.Context, timeout time.Duration) (*models.Job, error)
}

// Dispatcher routes a job to its provider adapter.
type Dispatcher interface {
	Dispatch(ctx context.Context, source models.Source, profile models.Profile) (models.Source, []models.Item, error)
}

// ItemStore is the slice of the store the worker writes to.
type ItemStore interface {
	UpsertSource(ctx context.Context, source models.Source) error
	UpsertItems(ctx context.Context, items []models.Item) error
}

// Worker consumes fetch jobs until its context is cancelled.
type Worker struct {
	jobs       JobQueue
	store      ItemStore
	dispatcher Dispatcher
}

// New creates a Worker.
func New(jobs JobQueue, store ItemStore, dispatcher Dispatcher) *Worker {
	return &Worker{jobs: jobs, store: store, dispatcher: dispatcher}
}

// Run blocks on the queue and processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return nil
		default:
		}

		job, err := w.jobs.BlockingPop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopped")
				return nil
			}
			// Transient queue trouble; reconnect is expected to succeed on
			// a later iteration.
			log.Errorf("worker: pop: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.process(ctx, job)
	}
}

// process executes one fetch job. An empty item batch leaves the source
// untouched, so a transient empty result does not bump updated_at and
// suppress the next scheduling attempt.
func (w *Worker) process(ctx context.Context, job *models.Job) {
	logger := log.WithFields(log.Fields{
		"source_id": job.Source.ID,
		"user_id":   job.Profile.ID,
		"type":      job.Source.Type,
	})

	source, items, err := w.dispatcher.Dispatch(ctx, job.Source, job.Profile)
	if err != nil {
		metrics.JobErrors.WithLabelValues(job.Source.Type).Inc()
		logger.Errorf("worker: fetch: %v", err)
		return
	}
	if len(items) == 0 {
		metrics.JobsProcessed.WithLabelValues(source.Type).Inc()
		logger.Debug("worker: no new items")
		return
	}

	if err := w.store.UpsertSource(ctx, source); err != nil {
		metrics.JobErrors.WithLabelValues(source.Type).Inc()
		logger.Errorf("worker: upsert source: %v", err)
		return
	}
	if err := w.store.UpsertItems(ctx, items); err != nil {
		metrics.JobErrors.WithLabelValues(source.Type).Inc()
		logger.Errorf("worker: upsert items: %v", err)
		return
	}

	metrics.JobsProcessed.WithLabelValues(source.Type).Inc()
	logger.Infof("worker: stored %d item(s)", len(items))
}
