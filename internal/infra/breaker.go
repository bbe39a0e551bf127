package infra

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"homematch/internal/config"
)

// NewBreaker trips once enough calls have failed, so a dead store fails
// fast instead of holding every request for its timeout.
func NewBreaker(name string, cfg *config.Config, logger *zap.Logger, metrics *Metrics) *gobreaker.CircuitBreaker {
	logger = logger.Named("breaker").With(zap.String("breaker", name))

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.BreakerStateChanged(name, to.String())
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the store
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// Guard runs fn through cb.
func Guard[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}
