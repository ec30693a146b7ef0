package handler

import (
	"fmt"
	"net/http"

	"github.com/piadas/piadas/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "piadas_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "piadas_registration_conflicts_total %d\n", snap.RegistrationConflicts)

	writeMetric(w, "piadas_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "piadas_logins_total{status=\"not_found\"} %d\n", snap.LoginsNotFound)
	writeMetric(w, "piadas_logins_total{status=\"invalid_password\"} %d\n", snap.LoginsInvalidPassword)

	writeMetric(w, "piadas_tokens_rejected_total{reason=\"missing\"} %d\n", snap.TokensRejectedMissing)
	writeMetric(w, "piadas_tokens_rejected_total{reason=\"expired\"} %d\n", snap.TokensRejectedExpired)
	writeMetric(w, "piadas_tokens_rejected_total{reason=\"invalid\"} %d\n", snap.TokensRejectedInvalid)

	writeMetric(w, "piadas_joke_fetches_total{status=\"success\"} %d\n", snap.JokeFetchesSucceeded)
	writeMetric(w, "piadas_joke_fetches_total{status=\"failed\"} %d\n", snap.JokeFetchesFailed)
	writeMetric(w, "piadas_joke_fetch_duration_seconds_count %d\n", snap.JokeFetchDurationCount)
	writeMetric(w, "piadas_joke_fetch_duration_seconds_sum %.6f\n", float64(snap.JokeFetchDurationTotalNs)/1e9)

	writeMetric(w, "piadas_user_cache_hits_total %d\n", snap.UserCacheHits)
	writeMetric(w, "piadas_user_cache_misses_total %d\n", snap.UserCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
