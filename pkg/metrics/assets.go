package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AssetMetrics records outcomes of object-store operations.
type AssetMetrics struct {
	uploadDuration *prometheus.HistogramVec
	uploads        *prometheus.CounterVec
	rollbacks      prometheus.Counter
	cleanupRetries prometheus.Counter
}

// NewAssetMetrics registers the asset metrics on the provided registerer.
func NewAssetMetrics(reg prometheus.Registerer) *AssetMetrics {
	if reg == nil {
		return &AssetMetrics{}
	}
	uploadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_upload_duration_seconds",
		Help:    "Duration of object-store uploads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_uploads_total",
		Help: "Object-store uploads by kind and outcome.",
	}, []string{"kind", "outcome"})
	rollbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asset_rollback_deletes_total",
		Help: "Compensating deletes issued after failed writes.",
	})
	cleanupRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asset_cleanup_retries_total",
		Help: "Cleanup deletes enqueued for asynchronous retry.",
	})
	reg.MustRegister(uploadDuration, uploads, rollbacks, cleanupRetries)
	return &AssetMetrics{
		uploadDuration: uploadDuration,
		uploads:        uploads,
		rollbacks:      rollbacks,
		cleanupRetries: cleanupRetries,
	}
}

// ObserveUpload records one upload attempt.
func (a *AssetMetrics) ObserveUpload(kind string, duration time.Duration, err error) {
	if a == nil || a.uploads == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.uploads.WithLabelValues(normalizeLabel(kind), outcome).Inc()
	a.uploadDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncRollback counts one compensating delete.
func (a *AssetMetrics) IncRollback() {
	if a == nil || a.rollbacks == nil {
		return
	}
	a.rollbacks.Inc()
}

// IncCleanupRetry counts one cleanup delete handed to the retry queue.
func (a *AssetMetrics) IncCleanupRetry() {
	if a == nil || a.cleanupRetries == nil {
		return
	}
	a.cleanupRetries.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
