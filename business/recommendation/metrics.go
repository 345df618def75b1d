package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Recommendation requests by requested algorithm and outcome (computed, cache_hit, fallback).",
		},
		[]string{"algorithm", "outcome"},
	)

	RecommendationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallbacks_total",
			Help: "Degradations by reason (cold_start, collaborative_failed, pipeline_failed).",
		},
		[]string{"reason"},
	)

	StrategyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_strategy_duration_seconds",
			Help:    "Time spent inside a single recommendation strategy.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	InteractionsTrackedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_tracked_total",
			Help: "Interactions appended to the log by type.",
		},
		[]string{"interaction_type"},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendationsServedTotal,
		RecommendationFallbacksTotal,
		StrategyDuration,
		InteractionsTrackedTotal,
	)
}
