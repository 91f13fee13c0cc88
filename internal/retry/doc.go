// Package retry classifies database errors.
//
// Classify maps a failed operation onto the closed ErrorKind set
// (KindPermission, KindDuplicateObject, KindOther) that drives permission
// escalation and duplicate-object tolerance. IsAuthFailure recognizes
// rejected logins.
//
// The Executor repeats session opening on transient network and server
// conditions with exponential backoff:
//
//	executor := retry.NewConnectExecutor(logger)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connect(ctx)
//	})
//
// Executor instances are safe for concurrent use.
package retry
