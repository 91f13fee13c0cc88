package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOperation struct {
	calls int
	errs  []error
}

func (s *stubOperation) run(ctx context.Context) error {
	s.calls++
	if s.calls <= len(s.errs) {
		return s.errs[s.calls-1]
	}
	return nil
}

var transientErr = &pgconn.PgError{Code: "08006", Message: "connection failure"}

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts, WithInitialDelay(time.Millisecond), WithJitter(0))
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	op := &stubOperation{}
	err := NewExecutor(NewConnectClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)

	require.NoError(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_SuccessAfterTransientFailures(t *testing.T) {
	op := &stubOperation{errs: []error{transientErr, transientErr}}
	err := NewExecutor(NewConnectClassifier(), fastBackoff(3)).Execute(context.Background(), op.run)

	require.NoError(t, err)
	assert.Equal(t, 3, op.calls)
}

func TestExecutor_ExhaustsAttempts(t *testing.T) {
	op := &stubOperation{errs: []error{transientErr, transientErr, transientErr, transientErr}}
	err := NewExecutor(NewConnectClassifier(), fastBackoff(2)).Execute(context.Background(), op.run)

	assert.Same(t, transientErr, err)
	assert.Equal(t, 3, op.calls)
}

func TestExecutor_FatalErrorNotRetried(t *testing.T) {
	authErr := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	op := &stubOperation{errs: []error{authErr}}

	err := NewExecutor(NewConnectClassifier(), fastBackoff(5)).Execute(context.Background(), op.run)

	assert.Same(t, authErr, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ZeroAttemptsMeansSingleCall(t *testing.T) {
	op := &stubOperation{errs: []error{transientErr}}
	err := NewExecutor(NewConnectClassifier(), fastBackoff(0)).Execute(context.Background(), op.run)

	assert.Error(t, err)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	strategy := NewExponentialBackoff(3, WithInitialDelay(time.Hour), WithMaxDelay(time.Hour), WithJitter(0))

	op := &stubOperation{errs: []error{transientErr}}
	executor := NewExecutor(NewConnectClassifier(), strategy).WithOnRetry(func(int, error, time.Duration) {
		cancel()
	})

	err := executor.Execute(ctx, op.run)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_WithOnRetryDoesNotMutateOriginal(t *testing.T) {
	base := NewExecutor(NewConnectClassifier(), fastBackoff(2))

	var seen []int
	withCallback := base.WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		seen = append(seen, attempt)
	})

	op := &stubOperation{errs: []error{transientErr, transientErr}}
	require.NoError(t, withCallback.Execute(context.Background(), op.run))
	assert.Equal(t, []int{0, 1}, seen)
	assert.Nil(t, base.onRetry)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(NewConnectClassifier(), nil) })
}

type recordingLogger struct{ verbose []string }

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}

func TestNewConnectExecutor(t *testing.T) {
	assert.Nil(t, NewConnectExecutor(nil).onRetry)

	logger := &recordingLogger{}
	executor := NewConnectExecutor(logger)
	require.NotNil(t, executor.onRetry)

	executor.onRetry(0, transientErr, 200*time.Millisecond)
	require.Len(t, logger.verbose, 1)
	assert.Contains(t, logger.verbose[0], "retry 1 in 200ms")
}
