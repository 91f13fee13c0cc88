package workflow

import (
	"context"
	"fmt"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// DropDatabase asks the operator to re-type dbName, then terminates other
// backends and drops the database from the maintenance database.
// A declined confirmation returns ErrConfirmationMismatch without touching
// the server.
func (w *Workflow) DropDatabase(ctx context.Context, admin psqlc.ResolvedConnection, dbName string) error {
	if dbName == "" {
		return fmt.Errorf("%w: Database name required. Use -d/--database", psqlc.ErrMissingCredentials)
	}
	if err := w.confirm(ctx, psqlc.ObjectDatabase, dbName); err != nil {
		return err
	}

	return w.dispatcher.Execute(ctx, admin, func(ctx context.Context, params psqlc.ResolvedConnection) error {
		return w.withSession(ctx, params.WithDatabase(psqlc.DefaultManagementDB), func(s psqlc.Session) error {
			if err := w.manager.TerminateConnections(ctx, s, dbName); err != nil {
				return err
			}
			if err := w.manager.Drop(ctx, s, dbName); err != nil {
				return err
			}
			w.logger.Info("✓ Database '%s' dropped successfully", dbName)
			return nil
		})
	})
}

// DropUser asks the operator to re-type username, then drops the role.
func (w *Workflow) DropUser(ctx context.Context, admin psqlc.ResolvedConnection, username string) error {
	if username == "" {
		return fmt.Errorf("%w: Username required. Use -u/--username", psqlc.ErrMissingCredentials)
	}
	if err := w.confirm(ctx, psqlc.ObjectUser, username); err != nil {
		return err
	}

	return w.dispatcher.Execute(ctx, admin, func(ctx context.Context, params psqlc.ResolvedConnection) error {
		return w.withSession(ctx, params.WithDatabase(psqlc.DefaultManagementDB), func(s psqlc.Session) error {
			if err := w.manager.DropUser(ctx, s, username); err != nil {
				return err
			}
			w.logger.Info("✓ User '%s' dropped successfully", username)
			return nil
		})
	})
}

func (w *Workflow) confirm(ctx context.Context, kind psqlc.ObjectKind, name string) error {
	approved, err := w.approver.RequestApproval(ctx, kind, name)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("%w: drop %s '%s'", psqlc.ErrConfirmationMismatch, kind, name)
	}
	return nil
}
