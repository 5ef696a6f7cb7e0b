package obs

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartReconcileTotal counts reconciliation passes by outcome.
	CartReconcileTotal *prometheus.CounterVec
	// CartReconcileLatency records reconciliation latency in milliseconds.
	CartReconcileLatency prometheus.Histogram
	// CartDetectedChangesTotal counts detected changes by kind and notification state.
	CartDetectedChangesTotal *prometheus.CounterVec
	// CartSnapshotCacheTotal counts snapshot cache operations by outcome.
	CartSnapshotCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartReconcileTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_reconcile_total",
			Help:      "Count of cart reconciliation outcomes.",
		}, []string{"result"})
		CartReconcileLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_reconcile_duration_ms",
			Help:      "Cart reconciliation latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})
		CartDetectedChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_detected_changes_total",
			Help:      "Count of detected cart changes by type.",
		}, []string{"type", "notified"})
		CartSnapshotCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_snapshot_cache_total",
			Help:      "Count of cart snapshot cache operations by outcome.",
		}, []string{"op", "result"})

		mustRegisterCollector(reg, CartReconcileTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartReconcileTotal = v
			}
		})
		mustRegisterCollector(reg, CartReconcileLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				CartReconcileLatency = v
			}
		})
		mustRegisterCollector(reg, CartDetectedChangesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartDetectedChangesTotal = v
			}
		})
		mustRegisterCollector(reg, CartSnapshotCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartSnapshotCacheTotal = v
			}
		})
	})
}

// ObserveCartReconcile records the outcome of one reconciliation pass. It is a
// no-op until MustRegisterDomainMetrics has run.
func ObserveCartReconcile(result string, took time.Duration) {
	if CartReconcileTotal != nil {
		CartReconcileTotal.WithLabelValues(result).Inc()
	}
	if CartReconcileLatency != nil {
		CartReconcileLatency.Observe(DurationMillis(took))
	}
}

// ObserveCartChange counts a change surfaced on a snapshot.
func ObserveCartChange(kind string, notified bool) {
	if CartDetectedChangesTotal != nil {
		CartDetectedChangesTotal.WithLabelValues(kind, fmt.Sprint(notified)).Inc()
	}
}

// ObserveCartCache counts a snapshot cache operation.
func ObserveCartCache(op, result string) {
	if CartSnapshotCacheTotal != nil {
		CartSnapshotCacheTotal.WithLabelValues(op, result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
