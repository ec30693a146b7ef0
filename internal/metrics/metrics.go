// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Credential metrics
	IncUserRegistered()
	IncRegistrationConflict()
	IncLogin(status string) // status: "success", "not_found", "invalid_password"

	// Token gate metrics
	IncTokenRejected(reason string) // reason: "missing", "expired", "invalid"

	// Joke provider metrics
	IncJokeFetch(status string) // status: "success" or "failed"
	ObserveJokeFetchDuration(duration time.Duration)

	// User cache metrics
	IncUserCacheHit()
	IncUserCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
