package psqlc

import "time"

// ErrorClassifier decides whether a failed attempt may be repeated.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy paces repeated attempts.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt (zero-based).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns how many retries follow the first attempt.
	MaxAttempts() int
}
