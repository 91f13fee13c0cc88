package db

import (
	"context"
	"time"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
// The token is used as the password for the administrative session.
type TokenProvider interface {
	// GetToken acquires a token valid for params' endpoint and user.
	GetToken(ctx context.Context, params psqlc.ResolvedConnection) (token string, expiresOn time.Time, err error)

	// String returns a description for logging. Must not include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
