package models

// Job is the queue payload for one fetch: the source to refresh and the
// profile that owns it. Jobs are created by the scheduler and consumed by a
// worker; the queue has no acknowledgement, so a popped job is gone whether
// or not the worker finishes it. A dropped refresh is picked up again on the
// next scheduler cycle once the source is stale again.
type Job struct {
	Source  Source  `json:"source"`
	Profile Profile `json:"profile"`
}
