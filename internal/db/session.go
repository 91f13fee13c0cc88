package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// pgxConn is the subset of *pgx.Conn used by pgxSession.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// pgxSession adapts a single pgx connection to psqlc.Session, keeping pgx
// types out of the public contracts.
type pgxSession struct {
	conn    pgxConn
	onClose func()
}

func newSession(conn pgxConn, onClose func()) *pgxSession {
	return &pgxSession{conn: conn, onClose: onClose}
}

func (s *pgxSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.conn.Exec(ctx, sql, args...)
}

func (s *pgxSession) QueryRow(ctx context.Context, sql string, args ...any) psqlc.Row {
	return s.conn.QueryRow(ctx, sql, args...)
}

// Query materializes every row. Callers bound result size in SQL.
func (s *pgxSession) Query(ctx context.Context, sql string, args ...any) (*psqlc.ResultSet, error) {
	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &psqlc.ResultSet{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *pgxSession) Close(ctx context.Context) error {
	err := s.conn.Close(ctx)
	if s.onClose != nil {
		s.onClose()
		s.onClose = nil
	}
	return err
}

var _ psqlc.Session = (*pgxSession)(nil)
