package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

const (
	queryDatabaseExists       = "SELECT 1 FROM pg_database WHERE datname = $1"
	queryTerminateConnections = `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
	userAttributes = "LOGIN CREATEDB REPLICATION BYPASSRLS"
)

// Manager implements role and database DDL over a psqlc.Session.
// Stateless; every error wraps psqlc.ErrExecutionFailed and keeps the
// server error reachable for classification.
type Manager struct{}

// New creates a new DatabaseManager instance.
func New() *Manager {
	return &Manager{}
}

// Exists checks if a database exists.
func (m *Manager) Exists(ctx context.Context, s psqlc.Session, dbName string) (bool, error) {
	var one int
	err := s.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to check database existence: %w", psqlc.ErrExecutionFailed, err)
	}
	return true, nil
}

// Create creates a new database.
func (m *Manager) Create(ctx context.Context, s psqlc.Session, dbName string) error {
	query := fmt.Sprintf("CREATE DATABASE %s", quoteIdent(dbName))
	if _, err := s.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: failed to create database %q: %w", psqlc.ErrExecutionFailed, dbName, err)
	}
	return nil
}

// Drop drops the database if it exists.
func (m *Manager) Drop(ctx context.Context, s psqlc.Session, dbName string) error {
	query := fmt.Sprintf("DROP DATABASE IF EXISTS %s", quoteIdent(dbName))
	if _, err := s.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: failed to drop database %q: %w", psqlc.ErrExecutionFailed, dbName, err)
	}
	return nil
}

// TerminateConnections terminates all other connections to the database.
func (m *Manager) TerminateConnections(ctx context.Context, s psqlc.Session, dbName string) error {
	if _, err := s.Exec(ctx, queryTerminateConnections, dbName); err != nil {
		return fmt.Errorf("%w: failed to terminate connections to database %q: %w", psqlc.ErrExecutionFailed, dbName, err)
	}
	return nil
}

// CreateUser creates a role with a password. CREATE USER does not accept
// bind parameters, so the password is written as a quoted literal.
func (m *Manager) CreateUser(ctx context.Context, s psqlc.Session, username, password string) error {
	query := fmt.Sprintf("CREATE USER %s WITH PASSWORD %s", quoteIdent(username), quoteLiteral(password))
	if _, err := s.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: failed to create user %q: %w", psqlc.ErrExecutionFailed, username, err)
	}
	return nil
}

// GrantUserAttributes grants LOGIN, CREATEDB, REPLICATION and BYPASSRLS.
func (m *Manager) GrantUserAttributes(ctx context.Context, s psqlc.Session, username string) error {
	query := fmt.Sprintf("ALTER USER %s WITH %s", quoteIdent(username), userAttributes)
	if _, err := s.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: failed to grant attributes to user %q: %w", psqlc.ErrExecutionFailed, username, err)
	}
	return nil
}

// DropUser drops the role if it exists.
func (m *Manager) DropUser(ctx context.Context, s psqlc.Session, username string) error {
	query := fmt.Sprintf("DROP USER IF EXISTS %s", quoteIdent(username))
	if _, err := s.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: failed to drop user %q: %w", psqlc.ErrExecutionFailed, username, err)
	}
	return nil
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// Verify Manager implements the DatabaseManager interface at compile time
var _ psqlc.DatabaseManager = (*Manager)(nil)
