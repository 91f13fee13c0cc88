package workflow

import (
	"context"
	"fmt"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// RequiresSuperuser reports whether command usually needs administrative
// privileges.
func RequiresSuperuser(command string) bool {
	return command == "create" || command == "drop"
}

// EnsureSuperuserPassword fills a missing administrative password from the
// record, then $PASSWORD, then an interactive prompt. Connections using a
// token-based method are returned unchanged.
func (d *Dispatcher) EnsureSuperuserPassword(ctx context.Context, params psqlc.ResolvedConnection, record *psqlc.CredentialRecord) (psqlc.ResolvedConnection, error) {
	if params.AuthMethod != psqlc.AuthMethodPassword || params.Password != "" {
		return params, nil
	}

	if record != nil && record.Password != "" {
		d.logger.Info("Using password from settings")
		return params.WithPassword(record.Password), nil
	}

	if pw, ok := d.lookupEnv(PasswordEnvVar); ok && pw != "" {
		d.logger.Info("Using password from $%s", PasswordEnvVar)
		return params.WithPassword(pw), nil
	}

	pw, err := d.prompter.ReadSecret(ctx, fmt.Sprintf("Password for %s: ", params.User))
	if err != nil {
		return params, fmt.Errorf("%w: %w", psqlc.ErrPasswordRequired, err)
	}
	if pw == "" {
		return params, nil
	}
	return params.WithPassword(pw), nil
}
