package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// CloudSQLConnector opens sessions to Google Cloud SQL using IAM database
// authentication through the Cloud SQL Go Connector. Each session owns its
// dialer, which is released when the session closes.
type CloudSQLConnector struct {
	instance string
	logger   psqlc.Logger
}

// NewCloudSQLConnector creates a connector for instance (project:region:instance).
func NewCloudSQLConnector(instance string, logger psqlc.Logger) *CloudSQLConnector {
	return &CloudSQLConnector{instance: instance, logger: logger}
}

func (c *CloudSQLConnector) Connect(ctx context.Context, params psqlc.ResolvedConnection) (psqlc.Session, error) {
	if params.User == "" {
		return nil, fmt.Errorf("%w: Google Cloud SQL IAM auth requires a username (-U)", psqlc.ErrInvalidConfig)
	}

	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Cloud SQL dialer: %w", psqlc.ErrConnectionFailed, err)
	}

	dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable", c.instance, params.User, params.Database)
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("%w: failed to parse connection config: %v", psqlc.ErrInvalidConfig, err)
	}
	if params.AppName != "" {
		cfg.RuntimeParams["application_name"] = params.AppName
	}
	cfg.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configureConn(cfg, c.logger)

	c.logger.Verbose("Connecting to Cloud SQL instance %s as %s", c.instance, params.User)
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		dialer.Close()
		return nil, wrapConnectionError(err, c.instance, 0, params.User, params.Database)
	}

	return newSession(conn, func() { dialer.Close() }), nil
}
