// Package metrics holds the pipeline's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// JobsEnqueued counts fetch jobs pushed by the scheduler, by provider type.
var JobsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedstack_jobs_enqueued_total",
	Help: "Fetch jobs pushed onto the queue.",
}, []string{"type"})

// JobsProcessed counts jobs a worker completed, by provider type.
var JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedstack_jobs_processed_total",
	Help: "Fetch jobs processed by workers.",
}, []string{"type"})

// JobErrors counts job-local failures, by provider type.
var JobErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedstack_job_errors_total",
	Help: "Fetch jobs that failed with a job-local error.",
}, []string{"type"})
