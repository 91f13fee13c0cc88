package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvka-141/psqlc/internal/retry"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// quitSentinels end the password correction loop.
var quitSentinels = map[string]bool{"x": true, "q": true, "exit": true, "quit": true}

const (
	// maxEmptyAnswers bounds how often a blank correction is re-prompted.
	maxEmptyAnswers = 5

	// maxPasswordAttempts bounds how many corrected passwords are tried.
	maxPasswordAttempts = 3
)

// CreateTargets names the user and database the create flow provisions.
type CreateTargets struct {
	Username string
	Password string
	Database string
}

// ResolveCreateTargets fills each target from the positional triple, then the
// flags, then the record. A target still missing is ErrMissingCredentials.
func ResolveCreateTargets(positional []string, flags CreateTargets, record *psqlc.CredentialRecord) (CreateTargets, error) {
	var t CreateTargets
	if len(positional) == 3 {
		t = CreateTargets{Username: positional[0], Password: positional[1], Database: positional[2]}
	}
	if t.Username == "" {
		t.Username = flags.Username
	}
	if t.Password == "" {
		t.Password = flags.Password
	}
	if t.Database == "" {
		t.Database = flags.Database
	}
	if record != nil {
		if t.Username == "" {
			t.Username = record.Username
		}
		if t.Password == "" {
			t.Password = record.Password
		}
		if t.Database == "" {
			t.Database = record.Database
		}
	}

	var missing []string
	if t.Username == "" {
		missing = append(missing, "username")
	}
	if t.Password == "" {
		missing = append(missing, "password")
	}
	if t.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return t, fmt.Errorf("%w: %v", psqlc.ErrMissingCredentials, missing)
	}
	return t, nil
}

// CreateUserDatabase provisions targets.Username with its password and
// attributes as admin, then connects as the new user to create
// targets.Database. Existing objects are reported, not treated as failures.
func (w *Workflow) CreateUserDatabase(ctx context.Context, admin psqlc.ResolvedConnection, targets CreateTargets) error {
	if targets.Username == "" || targets.Password == "" || targets.Database == "" {
		return fmt.Errorf("%w: username, password and database are required", psqlc.ErrMissingCredentials)
	}

	w.logger.Info("USERNAME: %s", targets.Username)
	w.logger.Info("PASSWORD: %s", psqlc.MaskSecret(targets.Password))
	w.logger.Info("DATABASE: %s", targets.Database)
	w.logger.Info("HOSTNAME: %s", admin.Host)
	w.logger.Info("PORT: %d", admin.Port)

	err := w.dispatcher.Execute(ctx, admin, func(ctx context.Context, params psqlc.ResolvedConnection) error {
		return w.provisionUser(ctx, params, targets)
	})
	if err != nil {
		return err
	}

	owner := admin.WithCredentials(targets.Username, targets.Password).WithDatabase(psqlc.DefaultBootstrapDB)
	return w.withSession(ctx, owner, func(s psqlc.Session) error {
		err := w.provisionDatabase(ctx, s, targets.Database)
		w.logger.Verbose("Logged out from new user session")
		return err
	})
}

func (w *Workflow) provisionUser(ctx context.Context, params psqlc.ResolvedConnection, targets CreateTargets) error {
	session, err := w.connectSuperuser(ctx, params.WithDatabase(psqlc.DefaultManagementDB))
	if err != nil {
		return err
	}
	defer func() {
		w.closeSession(ctx, session)
		w.logger.Verbose("Logged out from %s superuser", params.User)
	}()

	if err := w.manager.CreateUser(ctx, session, targets.Username, targets.Password); err != nil {
		if retry.Classify(err) != retry.KindDuplicateObject {
			return err
		}
		w.logger.Warn("User '%s' already exists", targets.Username)
	} else {
		w.logger.Info("✓ User '%s' created", targets.Username)
	}

	if err := w.manager.GrantUserAttributes(ctx, session, targets.Username); err != nil {
		return err
	}
	w.logger.Info("✓ User '%s' updated with privileges", targets.Username)
	return nil
}

// connectSuperuser opens the administrative session. A rejected password
// starts a correction loop where each newly entered password is tried once,
// up to maxPasswordAttempts corrections.
func (w *Workflow) connectSuperuser(ctx context.Context, params psqlc.ResolvedConnection) (psqlc.Session, error) {
	session, err := w.connector.Connect(ctx, params)
	for attempt := 0; err != nil && retry.IsAuthFailure(err); attempt++ {
		w.logger.Error("Invalid PostgreSQL password for %s", params.User)
		if attempt == maxPasswordAttempts {
			return nil, fmt.Errorf("giving up after %d password attempts for user '%s': %w", maxPasswordAttempts, params.User, err)
		}

		password, perr := w.readCorrection(ctx, params.User)
		if perr != nil {
			return nil, perr
		}
		params = params.WithPassword(password)
		session, err = w.connector.Connect(ctx, params)
	}
	return session, err
}

func (w *Workflow) readCorrection(ctx context.Context, user string) (string, error) {
	prompt := fmt.Sprintf("Password for %s [q/x/quit/exit for exit]: ", user)
	for empty := 0; empty < maxEmptyAnswers; empty++ {
		answer, err := w.prompter.ReadSecret(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("%w: %w", psqlc.ErrPasswordRequired, err)
		}
		if answer == "" {
			continue
		}
		if quitSentinels[answer] {
			return "", fmt.Errorf("%w: exit without password for user '%s'", psqlc.ErrPasswordRequired, user)
		}
		return answer, nil
	}
	return "", fmt.Errorf("%w: no password entered for user '%s'", psqlc.ErrPasswordRequired, user)
}

func (w *Workflow) provisionDatabase(ctx context.Context, s psqlc.Session, dbName string) error {
	exists, err := w.manager.Exists(ctx, s, dbName)
	if err != nil {
		return err
	}

	if !exists {
		if err := w.manager.Create(ctx, s, dbName); err != nil {
			if retry.Classify(err) != retry.KindDuplicateObject {
				return err
			}
			w.logger.Warn("Database '%s' already exists", dbName)
			return nil
		}
		w.logger.Info("✓ Database '%s' created", dbName)
		return nil
	}

	w.logger.Warn("Database '%s' already exists.", dbName)
	recreate, err := w.approver.ConfirmRecreate(ctx, dbName)
	if err != nil {
		return err
	}
	if !recreate {
		w.logger.Info("Skipping database creation")
		return nil
	}

	if err := w.manager.Drop(ctx, s, dbName); err != nil {
		return err
	}
	w.logger.Info("Database '%s' dropped", dbName)
	if err := w.manager.Create(ctx, s, dbName); err != nil {
		return err
	}
	w.logger.Info("✓ Database '%s' recreated", dbName)
	return nil
}

// IsAborted reports whether err means the operator declined to continue.
func IsAborted(err error) bool {
	return errors.Is(err, psqlc.ErrConfirmationMismatch) || errors.Is(err, psqlc.ErrPasswordRequired)
}
