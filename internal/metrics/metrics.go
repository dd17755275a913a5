// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Settlement metrics
	Settlements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokersplit_settlements_total",
			Help: "Total number of settlements computed",
		},
		[]string{"strategy"},
	)

	UnbalancedSettlements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokersplit_settlements_unbalanced_total",
		Help: "Settlements whose nets did not sum to zero after rounding",
	})

	AutoBalanceAdjustments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokersplit_auto_balance_adjustments_total",
		Help: "Total number of residuals absorbed by auto-balance",
	})

	TransfersPerSettlement = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokersplit_transfers_per_settlement",
		Help:    "Number of transfers produced per settlement",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	// Store metrics
	SessionsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokersplit_sessions_saved_total",
		Help: "Total number of sessions written to the store",
	})

	SessionsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokersplit_sessions_imported_total",
			Help: "Sessions written by backup import",
		},
		[]string{"result"}, // added, updated
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokersplit_store_errors_total",
			Help: "Store operation failures",
		},
		[]string{"op"},
	)

	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokersplit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
