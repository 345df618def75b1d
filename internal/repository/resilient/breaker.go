// Package resilient wraps the recommendation stores with a per-query
// deadline and a circuit breaker. One breaker guards one store.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorMarket/business/recommendation"
	"tutorMarket/pkg/config"
	"tutorMarket/pkg/logger"
	"tutorMarket/pkg/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
)

type Settings struct {
	QueryTimeout time.Duration
	Failures     uint32        // consecutive failures that open the circuit
	OpenTimeout  time.Duration // how long the circuit stays open
}

func SettingsFromConfig(cfg config.RecommendConfig) Settings {
	return Settings{
		QueryTimeout: cfg.QueryTimeout,
		Failures:     cfg.BreakerFailures,
		OpenTimeout:  cfg.BreakerTimeout,
	}
}

type breaker struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
}

func newBreaker(name string, s Settings) *breaker {
	failures := s.Failures
	if failures == 0 {
		failures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &breaker{name: name, timeout: s.QueryTimeout, cb: cb}
}

// isSuccessful keeps answers that are not store faults from tripping the
// circuit: a missing row or a caller that gave up.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, recommendation.ErrUserNotFound) ||
		errors.Is(err, context.Canceled)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func (b *breaker) State() gobreaker.State {
	return b.cb.State()
}

// call runs fn under the breaker with the query deadline applied.
func call[T any](ctx context.Context, b *breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	res, err := b.cb.Execute(func() (any, error) {
		qctx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			qctx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return fn(qctx)
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
			err = fmt.Errorf("%s unavailable: %w", b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, result).Inc()
		return zero, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()

	typed, ok := res.(T)
	if !ok && res != nil {
		return zero, fmt.Errorf("%s: unexpected result type %T", b.name, res)
	}
	return typed, nil
}
