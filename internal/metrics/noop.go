package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncRegistrationConflict is a no-op.
func (n *NoopRecorder) IncRegistrationConflict() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncTokenRejected is a no-op.
func (n *NoopRecorder) IncTokenRejected(reason string) {}

// IncJokeFetch is a no-op.
func (n *NoopRecorder) IncJokeFetch(status string) {}

// ObserveJokeFetchDuration is a no-op.
func (n *NoopRecorder) ObserveJokeFetchDuration(duration time.Duration) {}

// IncUserCacheHit is a no-op.
func (n *NoopRecorder) IncUserCacheHit() {}

// IncUserCacheMiss is a no-op.
func (n *NoopRecorder) IncUserCacheMiss() {}
