// Package queue is the client for the durable fetch-job queue, a Redis list
// with blocking consumption. There is no acknowledgement or redelivery: a
// job is done the instant it is popped. A worker crash between pop and
// persist drops that one refresh, and the next scheduler cycle enqueues the
// source again once it is stale — an accepted at-most-once-per-cycle
// semantic, not a bug.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"feedstack/internal/models"
)

// jobsKey is the fixed list the scheduler and all workers share.
const jobsKey = "feedstack:jobs"

// Enqueuer is the producer side of the queue. Implemented by Queue and
// mocked in scheduler tests.
type Enqueuer interface {
	Push(ctx context.Context, job models.Job) error
}

// Queue wraps a Redis client around the fixed jobs list.
type Queue struct {
	rdb *redis.Client
}

// New parses redisURL and verifies connectivity.
func New(ctx context.Context, redisURL string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Queue{rdb: client}, nil
}

// NewFromClient wraps an existing client. Used by tests.
func NewFromClient(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Close releases the Redis connection.
func (q *Queue) Close() error {
	return q.rdb.Close()
}

// Push appends a job to the tail of the list.
func (q *Queue) Push(ctx context.Context, job models.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job for source %s: %w", job.Source.ID, err)
	}
	if err := q.rdb.RPush(ctx, jobsKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to push job for source %s: %w", job.Source.ID, err)
	}
	return nil
}

// BlockingPop waits up to timeout for the oldest job and returns it, or
// (nil, nil) when the queue stayed empty for the whole timeout.
func (q *Queue) BlockingPop(ctx context.Context, timeout time.Duration) (*models.Job, error) {
	res, err := q.rdb.BLPop(ctx, timeout, jobsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop job: %w", err)
	}
	// BLPop returns [key, value].
	if len(res) < 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply of length %d", len(res))
	}

	var job models.Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	return &job, nil
}
