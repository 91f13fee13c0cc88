package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff_Doubles(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithJitter(0),
	)

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 800*time.Millisecond, b.NextDelay(3))
	assert.Equal(t, time.Second, b.NextDelay(4))
	assert.Equal(t, time.Second, b.NextDelay(1000))
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	low := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.1), WithRandom(func() float64 { return 0 }))
	high := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.1), WithRandom(func() float64 { return 0.999999 }))
	mid := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.1), WithRandom(func() float64 { return 0.5 }))

	assert.Equal(t, 900*time.Millisecond, low.NextDelay(0))
	assert.InDelta(t, float64(1100*time.Millisecond), float64(high.NextDelay(0)), float64(time.Millisecond))
	assert.Equal(t, time.Second, mid.NextDelay(0))
}

func TestExponentialBackoff_MaxAttempts(t *testing.T) {
	assert.Equal(t, 2, NewExponentialBackoff(2).MaxAttempts())
	assert.Equal(t, 0, NewExponentialBackoff(0).MaxAttempts())
	assert.Equal(t, 0, NewExponentialBackoff(-1).MaxAttempts())
}
