// Package manager issues the role and database DDL used by psqlc's
// privileged workflows:
//   - checking database existence
//   - creating and dropping databases
//   - terminating other backends before a drop
//   - creating, granting and dropping login roles
//
// Identifiers are quoted with pgx.Identifier.Sanitize(). Role passwords are
// quoted as string literals because CREATE USER takes no bind parameters.
//
// # Example Usage
//
//	mgr := manager.New()
//
//	err := mgr.CreateUser(ctx, session, "app", "s3cret")
//	err = mgr.GrantUserAttributes(ctx, session, "app")
//
//	exists, err := mgr.Exists(ctx, session, "shop")
//	err = mgr.TerminateConnections(ctx, session, "shop")
//	err = mgr.Drop(ctx, session, "shop")
package manager
