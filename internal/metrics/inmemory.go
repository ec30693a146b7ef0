package metrics

import (
	"sync/atomic"
	"time"
)

// Login and fetch status labels.
const (
	StatusSuccess         = "success"
	StatusFailed          = "failed"
	StatusNotFound        = "not_found"
	StatusInvalidPassword = "invalid_password"

	ReasonMissing = "missing"
	ReasonExpired = "expired"
	ReasonInvalid = "invalid"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	RegistrationConflicts uint64

	LoginsSucceeded       uint64
	LoginsNotFound        uint64
	LoginsInvalidPassword uint64

	TokensRejectedMissing uint64
	TokensRejectedExpired uint64
	TokensRejectedInvalid uint64

	JokeFetchesSucceeded     uint64
	JokeFetchesFailed        uint64
	JokeFetchDurationCount   uint64
	JokeFetchDurationTotalNs int64

	UserCacheHits   uint64
	UserCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered       uint64
	registrationConflicts uint64

	loginsSucceeded       uint64
	loginsNotFound        uint64
	loginsInvalidPassword uint64

	tokensRejectedMissing uint64
	tokensRejectedExpired uint64
	tokensRejectedInvalid uint64

	jokeFetchesSucceeded     uint64
	jokeFetchesFailed        uint64
	jokeFetchDurationCount   uint64
	jokeFetchDurationTotalNs int64

	userCacheHits   uint64
	userCacheMisses uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:          atomic.LoadUint64(&m.usersRegistered),
		RegistrationConflicts:    atomic.LoadUint64(&m.registrationConflicts),
		LoginsSucceeded:          atomic.LoadUint64(&m.loginsSucceeded),
		LoginsNotFound:           atomic.LoadUint64(&m.loginsNotFound),
		LoginsInvalidPassword:    atomic.LoadUint64(&m.loginsInvalidPassword),
		TokensRejectedMissing:    atomic.LoadUint64(&m.tokensRejectedMissing),
		TokensRejectedExpired:    atomic.LoadUint64(&m.tokensRejectedExpired),
		TokensRejectedInvalid:    atomic.LoadUint64(&m.tokensRejectedInvalid),
		JokeFetchesSucceeded:     atomic.LoadUint64(&m.jokeFetchesSucceeded),
		JokeFetchesFailed:        atomic.LoadUint64(&m.jokeFetchesFailed),
		JokeFetchDurationCount:   atomic.LoadUint64(&m.jokeFetchDurationCount),
		JokeFetchDurationTotalNs: atomic.LoadInt64(&m.jokeFetchDurationTotalNs),
		UserCacheHits:            atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:          atomic.LoadUint64(&m.userCacheMisses),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncRegistrationConflict increments the duplicate-email counter.
func (m *InMemoryRecorder) IncRegistrationConflict() {
	atomic.AddUint64(&m.registrationConflicts, 1)
}

// IncLogin increments the login counter for status. Unknown statuses are ignored.
func (m *InMemoryRecorder) IncLogin(status string) {
	switch status {
	case StatusSuccess:
		atomic.AddUint64(&m.loginsSucceeded, 1)
	case StatusNotFound:
		atomic.AddUint64(&m.loginsNotFound, 1)
	case StatusInvalidPassword:
		atomic.AddUint64(&m.loginsInvalidPassword, 1)
	}
}

// IncTokenRejected increments the rejection counter for reason.
func (m *InMemoryRecorder) IncTokenRejected(reason string) {
	switch reason {
	case ReasonMissing:
		atomic.AddUint64(&m.tokensRejectedMissing, 1)
	case ReasonExpired:
		atomic.AddUint64(&m.tokensRejectedExpired, 1)
	case ReasonInvalid:
		atomic.AddUint64(&m.tokensRejectedInvalid, 1)
	}
}

// IncJokeFetch increments the joke fetch counter for status.
func (m *InMemoryRecorder) IncJokeFetch(status string) {
	if status == StatusSuccess {
		atomic.AddUint64(&m.jokeFetchesSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.jokeFetchesFailed, 1)
}

// ObserveJokeFetchDuration records joke fetch latency.
func (m *InMemoryRecorder) ObserveJokeFetchDuration(duration time.Duration) {
	atomic.AddUint64(&m.jokeFetchDurationCount, 1)
	atomic.AddInt64(&m.jokeFetchDurationTotalNs, duration.Nanoseconds())
}

// IncUserCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() {
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncUserCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() {
	atomic.AddUint64(&m.userCacheMisses, 1)
}
