package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexus_pos",
		Name:      "checkout_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})

	CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nexus_pos",
		Name:      "checkout_duration_seconds",
		Help:      "Time spent inside the checkout transaction.",
		Buckets:   prometheus.DefBuckets,
	})

	StockInUnits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nexus_pos",
		Name:      "stock_in_units_total",
		Help:      "Units added through stock-in.",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nexus_pos",
		Name:      "dashboard_cache_lookups_total",
		Help:      "Dashboard cache lookups by result.",
	}, []string{"result"})
)

// Checkout outcomes.
const (
	OutcomeCompleted    = "completed"
	OutcomeInvalid      = "invalid"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeFailed       = "failed"
)
