package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// SOS lifecycle metrics
	SOSTransitions    *prometheus.CounterVec
	SOSClaimConflicts prometheus.Counter
	SOSActiveRequests prometheus.Gauge

	// Notification feed metrics
	FeedLoads         *prometheus.CounterVec
	FeedChangeEvents  *prometheus.CounterVec
	FeedStaleDiscards prometheus.Counter
	OutreachDispatch  *prometheus.CounterVec

	// Worker metrics
	ExpirySweepMarked prometheus.Counter
	WorkerErrors      *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		SOSTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sos_transitions_total",
			Help:      "Total number of SOS request status transitions",
		}, []string{"from", "to"}),
		SOSClaimConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sos_claim_conflicts_total",
			Help:      "Total number of responder claims rejected because the request was no longer active",
		}),
		SOSActiveRequests: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sos_active_requests",
			Help:      "Current number of active SOS requests",
		}),
		FeedLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_loads_total",
			Help:      "Total number of notification feed loads",
		}, []string{"source"}),
		FeedChangeEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_change_events_total",
			Help:      "Total number of realtime change events applied to the feed",
		}, []string{"op"}),
		FeedStaleDiscards: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_stale_discards_total",
			Help:      "Total number of realtime updates discarded as older than the local copy",
		}),
		OutreachDispatch: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outreach_dispatch_total",
			Help:      "Total number of outreach dispatches by outcome",
		}, []string{"status"}),
		ExpirySweepMarked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inventory_expired_marked_total",
			Help:      "Total number of inventory rows marked expired by the sweep",
		}),
		WorkerErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "worker_errors_total",
			Help:      "Total number of background worker errors",
		}, []string{"worker"}),
	}
}
