package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAssetMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssetMetrics(reg)

	m.ObserveUpload("image", 120*time.Millisecond, nil)
	m.ObserveUpload("image", 80*time.Millisecond, errors.New("boom"))
	m.IncRollback()
	m.IncRollback()
	m.IncCleanupRetry()

	if got := testutil.ToFloat64(m.uploads.WithLabelValues("image", "success")); got != 1 {
		t.Fatalf("expected 1 successful upload, got %v", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues("image", "failure")); got != 1 {
		t.Fatalf("expected 1 failed upload, got %v", got)
	}
	if got := testutil.ToFloat64(m.rollbacks); got != 2 {
		t.Fatalf("expected 2 rollbacks, got %v", got)
	}
	if got := testutil.ToFloat64(m.cleanupRetries); got != 1 {
		t.Fatalf("expected 1 cleanup retry, got %v", got)
	}
}

func TestAssetMetricsNilSafe(t *testing.T) {
	var m *AssetMetrics
	m.ObserveUpload("image", time.Second, nil)
	m.IncRollback()
	m.IncCleanupRetry()

	empty := NewAssetMetrics(nil)
	empty.ObserveUpload("", 0, nil)
	empty.IncRollback()
	empty.IncCleanupRetry()
}

func TestHTTPMetricsObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "/api/v1/products", "201", 40*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/products", "201", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/products", "201")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
}
