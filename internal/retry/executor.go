package retry

import (
	"context"
	"time"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// Executor repeats an operation while its errors classify as transient.
// WithOnRetry returns a copy, so a shared Executor is never mutated.
type Executor struct {
	classifier psqlc.ErrorClassifier
	strategy   psqlc.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier psqlc.ErrorClassifier, strategy psqlc.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// NewConnectExecutor builds the executor used around session opening.
func NewConnectExecutor(logger psqlc.Logger) *Executor {
	strategy := NewExponentialBackoff(psqlc.DefaultRetryMaxAttempts,
		WithInitialDelay(psqlc.DefaultRetryInitialDelay),
		WithMaxDelay(psqlc.DefaultRetryMaxDelay),
	)
	e := NewExecutor(NewConnectClassifier(), strategy)
	if logger == nil {
		return e
	}
	return e.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("Connection attempt failed (%v), retry %d in %v", err, attempt+1, delay.Round(time.Millisecond))
	})
}

// WithOnRetry returns a new Executor calling callback before each retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation once, then up to MaxAttempts more times while the
// error is transient. The last error is returned.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)

	for attempt := 0; err != nil && attempt < e.strategy.MaxAttempts(); attempt++ {
		if !e.classifier.IsTransient(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
