package psqlc

import (
	"context"
)

// DatabaseManager defines the DDL operations used by the privileged workflow.
// Implementations are stateless; every call runs on the session it is given.
type DatabaseManager interface {
	// Exists checks if a database exists.
	Exists(ctx context.Context, s Session, dbName string) (bool, error)

	// Create creates a new database.
	Create(ctx context.Context, s Session, dbName string) error

	// Drop drops the database if it exists.
	Drop(ctx context.Context, s Session, dbName string) error

	// TerminateConnections terminates all other backends connected to dbName.
	TerminateConnections(ctx context.Context, s Session, dbName string) error

	// CreateUser creates a login role with the given password.
	CreateUser(ctx context.Context, s Session, username, password string) error

	// GrantUserAttributes grants LOGIN, CREATEDB, REPLICATION and BYPASSRLS.
	GrantUserAttributes(ctx context.Context, s Session, username string) error

	// DropUser drops the role if it exists.
	DropUser(ctx context.Context, s Session, username string) error
}
