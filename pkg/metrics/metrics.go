package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of every HTTP handler, labelled by route template
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	// 0 closed, 1 half-open, 2 open
	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "store_circuit_breaker_state",
		Help: "Current state of a store circuit breaker",
	}, []string{"name"})

	CircuitBreakerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_circuit_breaker_requests_total",
		Help: "Store calls through a circuit breaker by result (success, failure, rejected)",
	}, []string{"name", "result"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		CircuitBreakerState,
		CircuitBreakerRequests,
	)
}
