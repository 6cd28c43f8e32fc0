package translation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerGenerator stops calling the wrapped generator after a run of
// consecutive failures and lets a single probe through once cooldown passes.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps next in a circuit breaker. A threshold of zero
// disables the breaker and returns next unchanged.
func NewBreakerGenerator(next Generator, threshold uint32, cooldown time.Duration, logger *zap.Logger) Generator {
	if threshold == 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerGenerator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Name returns the wrapped provider name
func (b *BreakerGenerator) Name() string {
	return b.next.Name()
}

// Generate calls the wrapped generator unless the breaker is open
func (b *BreakerGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, model, prompt)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// State reports the breaker state
func (b *BreakerGenerator) State() gobreaker.State {
	return b.cb.State()
}
