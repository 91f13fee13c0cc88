package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/vvka-141/psqlc/internal/retry"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// PasswordEnvVar supplies the elevated password without prompting.
const PasswordEnvVar = "PASSWORD"

// Operation is a unit of work executed against a resolved connection.
type Operation func(ctx context.Context, params psqlc.ResolvedConnection) error

// LookupEnvFunc reads an environment variable.
type LookupEnvFunc func(key string) (string, bool)

// Dispatcher runs operations and retries a permission failure exactly once
// with an elevated credential.
type Dispatcher struct {
	prompter  psqlc.Prompter
	logger    psqlc.Logger
	lookupEnv LookupEnvFunc
}

// NewDispatcher creates a Dispatcher reading the process environment.
// Panics if prompter or logger is nil.
func NewDispatcher(prompter psqlc.Prompter, logger psqlc.Logger) *Dispatcher {
	if prompter == nil {
		panic("prompter cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Dispatcher{prompter: prompter, logger: logger, lookupEnv: os.LookupEnv}
}

// WithLookupEnv returns a copy of the dispatcher reading variables through fn.
func (d *Dispatcher) WithLookupEnv(fn LookupEnvFunc) *Dispatcher {
	clone := *d
	clone.lookupEnv = fn
	return &clone
}

// Execute runs op with params. When the first attempt fails with a permission
// error, the password is taken from $PASSWORD, kept if already present, or
// prompted for, and op runs a second and last time. Any other error is
// returned unmodified.
func (d *Dispatcher) Execute(ctx context.Context, params psqlc.ResolvedConnection, op Operation) error {
	err := op(ctx, params)
	if err == nil || retry.Classify(err) != retry.KindPermission {
		return err
	}

	d.logger.Warn("Permission denied for %s, retrying with superuser credentials", params.User)

	password, perr := d.elevatedPassword(ctx, params)
	if perr != nil {
		d.logger.Verbose("Could not obtain superuser password: %v", perr)
		return err
	}
	if password == "" {
		return err
	}

	return op(ctx, params.WithPassword(password))
}

func (d *Dispatcher) elevatedPassword(ctx context.Context, params psqlc.ResolvedConnection) (string, error) {
	if pw, ok := d.lookupEnv(PasswordEnvVar); ok && pw != "" {
		d.logger.Verbose("Using password from $%s", PasswordEnvVar)
		return pw, nil
	}
	if params.Password != "" {
		return params.Password, nil
	}
	return d.prompter.ReadSecret(ctx, fmt.Sprintf("Superuser password for %s: ", params.User))
}
