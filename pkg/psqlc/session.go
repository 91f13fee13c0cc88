package psqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// Session is a single database connection owned by one workflow step.
// The owner must call Close on every exit path.
type Session interface {
	// Exec executes a statement without returning rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query expected to return at most one row.
	// Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Query executes a query and collects all rows.
	Query(ctx context.Context, sql string, args ...any) (*ResultSet, error)

	// Close terminates the connection.
	Close(ctx context.Context) error
}

// Row represents a single row returned by QueryRow.
// This interface decouples from pgx.Row.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns an error if no row was found or if the scan fails.
	Scan(dest ...any) error
}

// ResultSet is a fully materialized query result.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Connector opens sessions for a resolved connection.
// Different implementations handle password and cloud IAM authentication.
type Connector interface {
	Connect(ctx context.Context, params ResolvedConnection) (Session, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, params ResolvedConnection) (Session, error)

// Connect calls f.
func (f ConnectorFunc) Connect(ctx context.Context, params ResolvedConnection) (Session, error) {
	return f(ctx, params)
}
