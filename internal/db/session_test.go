package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Scan(dest ...any) error                       { return errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.pos-1], nil
}

type fakeConn struct {
	rows     *fakeRows
	queryErr error
	closed   bool
}

func (c *fakeConn) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("CREATE ROLE"), nil
}

func (c *fakeConn) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (c *fakeConn) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.rows, nil
}

func (c *fakeConn) Close(context.Context) error {
	c.closed = true
	return nil
}

func TestPgxSession_QueryMaterializesRows(t *testing.T) {
	rows := &fakeRows{
		fields: []pgconn.FieldDescription{{Name: "datname"}, {Name: "size"}},
		values: [][]any{{"shop", int64(42)}, {"blog", int64(7)}},
	}
	session := newSession(&fakeConn{rows: rows}, nil)

	result, err := session.Query(context.Background(), "SELECT datname, size FROM x")
	require.NoError(t, err)

	assert.Equal(t, []string{"datname", "size"}, result.Columns)
	assert.Equal(t, [][]any{{"shop", int64(42)}, {"blog", int64(7)}}, result.Rows)
	assert.Equal(t, 2, result.Len())
	assert.True(t, rows.closed)
}

func TestPgxSession_QueryErrors(t *testing.T) {
	queryErr := errors.New("syntax error")
	_, err := newSession(&fakeConn{queryErr: queryErr}, nil).Query(context.Background(), "SELEC")
	assert.Same(t, queryErr, err)

	rowsErr := errors.New("stream broke")
	_, err = newSession(&fakeConn{rows: &fakeRows{err: rowsErr}}, nil).Query(context.Background(), "SELECT 1")
	assert.Same(t, rowsErr, err)
}

func TestPgxSession_CloseRunsHookOnce(t *testing.T) {
	conn := &fakeConn{}
	hookCalls := 0
	session := newSession(conn, func() { hookCalls++ })

	require.NoError(t, session.Close(context.Background()))
	require.NoError(t, session.Close(context.Background()))

	assert.True(t, conn.closed)
	assert.Equal(t, 1, hookCalls)
}
