package db

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/psqlc/internal/logging"
	"github.com/vvka-141/psqlc/internal/retry"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

func configureConn(cfg *pgx.ConnConfig, logger psqlc.Logger) {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = psqlc.DefaultConnectTimeout
	}
	cfg.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// StandardConnector opens password-authenticated sessions, retrying
// transient connection failures.
type StandardConnector struct {
	logger        psqlc.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a StandardConnector. Retry behavior uses the
// psqlc defaults: DefaultRetryMaxAttempts retries, exponential backoff from
// DefaultRetryInitialDelay up to DefaultRetryMaxDelay.
func NewStandardConnector(logger psqlc.Logger) *StandardConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &StandardConnector{
		logger:        logger,
		retryExecutor: retry.NewConnectExecutor(logger),
	}
}

// Connect opens a single connection for params.
func (c *StandardConnector) Connect(ctx context.Context, params psqlc.ResolvedConnection) (psqlc.Session, error) {
	cfg, err := pgx.ParseConfig(BuildConnectionString(params))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse connection config: %v", psqlc.ErrInvalidConfig, err)
	}
	configureConn(cfg, c.logger)

	c.logger.Verbose("Connecting: %s", params)

	var conn *pgx.Conn
	err = c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		var connectErr error
		conn, connectErr = pgx.ConnectConfig(ctx, cfg)
		return connectErr
	})
	if err != nil {
		return nil, wrapConnectionError(err, params.Host, params.Port, params.User, params.Database)
	}
	return newSession(conn, nil), nil
}

// ConnectorOptions carries the settings cloud authentication needs.
type ConnectorOptions struct {
	Logger psqlc.Logger

	AWSRegion string

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string
}

// AuthConnector routes every Connect call by the connection's AuthMethod.
// Connections rewritten with an operator-supplied password fall back to the
// standard connector. Cloud connectors are built on first use.
type AuthConnector struct {
	opts     ConnectorOptions
	standard *StandardConnector

	mu    sync.Mutex
	cloud map[psqlc.AuthMethod]psqlc.Connector
}

// NewConnector creates the connector used by all commands.
func NewConnector(opts ConnectorOptions) *AuthConnector {
	if opts.Logger == nil {
		opts.Logger = logging.NewNullLogger()
	}
	return &AuthConnector{
		opts:     opts,
		standard: NewStandardConnector(opts.Logger),
		cloud:    make(map[psqlc.AuthMethod]psqlc.Connector),
	}
}

func (c *AuthConnector) Connect(ctx context.Context, params psqlc.ResolvedConnection) (psqlc.Session, error) {
	if params.AuthMethod == psqlc.AuthMethodPassword {
		return c.standard.Connect(ctx, params)
	}

	connector, err := c.cloudConnector(params.AuthMethod)
	if err != nil {
		return nil, err
	}
	return connector.Connect(ctx, params)
}

func (c *AuthConnector) cloudConnector(method psqlc.AuthMethod) (psqlc.Connector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if connector, ok := c.cloud[method]; ok {
		return connector, nil
	}

	var (
		connector psqlc.Connector
		err       error
	)
	switch method {
	case psqlc.AuthMethodAWSIAM:
		connector, err = newAWSConnector(c.opts, c.standard)
	case psqlc.AuthMethodAzure:
		connector, err = newAzureConnector(c.opts, c.standard)
	case psqlc.AuthMethodGoogleIAM:
		connector, err = newGoogleConnector(c.opts)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", method, psqlc.ErrUnsupportedAuthMethod)
	}
	if err != nil {
		return nil, err
	}
	c.cloud[method] = connector
	return connector, nil
}

func newAWSConnector(opts ConnectorOptions, standard *StandardConnector) (psqlc.Connector, error) {
	provider, err := NewAWSIAMTokenProvider(opts.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", psqlc.ErrInvalidConfig, err)
	}
	return NewTokenConnector(standard, provider, "AWS IAM", opts.Logger), nil
}

// newAzureConnector uses Service Principal credentials when all three are
// present, and the DefaultAzureCredential chain otherwise.
func newAzureConnector(opts ConnectorOptions, standard *StandardConnector) (psqlc.Connector, error) {
	var provider TokenProvider
	var err error

	if opts.AzureTenantID != "" && opts.AzureClientID != "" && opts.AzureClientSecret != "" {
		provider, err = NewAzureServicePrincipalProvider(opts.AzureTenantID, opts.AzureClientID, opts.AzureClientSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		provider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}
	return NewTokenConnector(standard, provider, "Azure", opts.Logger), nil
}

func newGoogleConnector(opts ConnectorOptions) (psqlc.Connector, error) {
	if opts.GoogleInstance == "" {
		return nil, fmt.Errorf("%w: Google Cloud SQL IAM auth requires $PSQLC_GOOGLE_INSTANCE or auth.google_instance (project:region:instance)", psqlc.ErrInvalidConfig)
	}
	return NewCloudSQLConnector(opts.GoogleInstance, opts.Logger), nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// Both psqlc.ErrConnectionFailed and the original error stay reachable
// through errors.Is / errors.As.
func wrapConnectionError(err error, host string, port int, user, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port (-H/--hostname, --port, $HOST, $PORT)
  - Firewall blocking the connection

Original error: %w`, psqlc.ErrConnectionFailed, addr, host, port, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled in the settings file or -H/--hostname
  - DNS is not configured or reachable

Original error: %w`, psqlc.ErrConnectionFailed, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for user "%s"

Possible causes:
  - Wrong password (check -P/--passwd, $PASSWORD or the settings file)
  - Wrong username (check -U/--user or $USER)

Original error: %w`, psqlc.ErrConnectionFailed, user, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" or role "%s" does not exist

Original error: %w`, psqlc.ErrConnectionFailed, database, user, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, psqlc.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to %s

Try: psqlc show connections

Original error: %w`, psqlc.ErrConnectionFailed, addr, err)

	default:
		return fmt.Errorf("%w: %w", psqlc.ErrConnectionFailed, err)
	}
}
