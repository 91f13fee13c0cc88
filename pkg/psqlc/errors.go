package psqlc

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := workflow.DropDatabase(ctx, params, "shop")
//	if errors.Is(err, psqlc.ErrConfirmationMismatch) {
//	    // operator typed something else; nothing was touched
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingCredentials indicates a required username, password or database
	// could not be resolved from any source.
	ErrMissingCredentials = errors.New("missing required credentials")

	// ErrConfirmationMismatch indicates the operator did not confirm a destructive operation.
	ErrConfirmationMismatch = errors.New("confirmation mismatch")

	// ErrPasswordRequired indicates the operator declined to supply a password.
	ErrPasswordRequired = errors.New("password required")

	// ErrExecutionFailed indicates SQL execution failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrReadOnlyViolation indicates a destructive statement was submitted in read-only mode.
	ErrReadOnlyViolation = errors.New("destructive queries not allowed in read-only mode")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrUnsupportedAuthMethod),
		errors.Is(err, ErrReadOnlyViolation):
		return ExitConfigError
	case errors.Is(err, ErrConfirmationMismatch), errors.Is(err, ErrPasswordRequired):
		return ExitOperatorAborted
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	}

	errStr := strings.ToLower(err.Error())
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "password authentication failed") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError matches the messages cobra and pflag produce for bad invocations.
func isUsageError(errStr string) bool {
	for _, prefix := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"requires at least",
		"required flag",
		"invalid argument",
		"flag needs an argument",
	} {
		if strings.HasPrefix(errStr, prefix) {
			return true
		}
	}
	return false
}
