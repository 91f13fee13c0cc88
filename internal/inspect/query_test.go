package inspect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vvka-141/psqlc/internal/testing"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

func TestCheckReadOnly(t *testing.T) {
	tests := []struct {
		sql     string
		allowed bool
	}{
		{"SELECT * FROM orders", true},
		{"select created_at, updated_by from orders", true},
		{"SELECT 1; DROP TABLE orders", false},
		{"delete from orders", false},
		{"TRUNCATE orders", false},
		{"alter table orders add column x int", false},
		{"CREATE INDEX ON orders(id)", false},
		{"insert into orders values (1)", false},
		{"Update orders set x = 1", false},
	}
	for _, tt := range tests {
		err := CheckReadOnly(tt.sql)
		if tt.allowed {
			assert.NoError(t, err, tt.sql)
		} else {
			assert.ErrorIs(t, err, psqlc.ErrReadOnlyViolation, tt.sql)
		}
	}
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, ReturnsRows("  select 1"))
	assert.True(t, ReturnsRows("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.True(t, ReturnsRows("(SELECT 1)"))
	assert.False(t, ReturnsRows("VACUUM orders"))
	assert.False(t, ReturnsRows(""))
}

func TestQuery_ReadOnlyRejectsWithoutConnecting(t *testing.T) {
	connector := &testhelpers.FakeConnector{}
	in, _ := newTestInspector(connector, nil)

	err := in.Query(context.Background(), testParams(), QueryOptions{SQL: "DROP TABLE orders", ReadOnly: true})
	assert.ErrorIs(t, err, psqlc.ErrReadOnlyViolation)
	assert.Equal(t, psqlc.ExitConfigError, psqlc.ExitCodeForError(err))
	assert.Empty(t, connector.Calls())
}

func TestQuery_LimitsRenderedRows(t *testing.T) {
	connector := &testhelpers.FakeConnector{
		Prepare: func(_ psqlc.ResolvedConnection, s *testhelpers.FakeSession) {
			s.OnQuery("FROM orders", &psqlc.ResultSet{
				Columns: []string{"id", "note"},
				Rows:    [][]any{{int64(1), "first"}, {int64(2), nil}, {int64(3), "third"}},
			}, nil)
		},
	}
	in, out := newTestInspector(connector, nil)

	require.NoError(t, in.Query(context.Background(), testParams(), QueryOptions{SQL: "SELECT id, note FROM orders", Limit: 2}))
	assert.Contains(t, out.String(), "Query Results")
	assert.Contains(t, out.String(), "first")
	assert.Contains(t, out.String(), "NULL")
	assert.NotContains(t, out.String(), "third")
	assert.Contains(t, out.String(), "Showing 2 of 3 rows")
}

func TestQuery_NoRows(t *testing.T) {
	in, out := newTestInspector(&testhelpers.FakeConnector{}, nil)

	require.NoError(t, in.Query(context.Background(), testParams(), QueryOptions{SQL: "SELECT 1 WHERE false"}))
	assert.Contains(t, out.String(), "No rows returned")
}

func TestQuery_NonSelectUsesExec(t *testing.T) {
	connector := &testhelpers.FakeConnector{}
	in, out := newTestInspector(connector, nil)

	require.NoError(t, in.Query(context.Background(), testParams(), QueryOptions{SQL: "VACUUM orders"}))
	assert.Equal(t, []string{"VACUUM orders"}, connector.AllStatements())
	assert.Contains(t, out.String(), "Query executed successfully")
}

func TestQuery_EmptySQL(t *testing.T) {
	in, _ := newTestInspector(&testhelpers.FakeConnector{}, nil)

	err := in.Query(context.Background(), testParams(), QueryOptions{SQL: "   "})
	assert.ErrorIs(t, err, psqlc.ErrMissingCredentials)
}

func TestBackupCommand(t *testing.T) {
	in, out := newTestInspector(&testhelpers.FakeConnector{}, nil)
	in = in.WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })

	assert.Equal(t,
		"pg_dump -h db.internal -p 5433 -U postgres -d shop -F p -f shop_backup_20260102_030405.sql",
		in.BackupCommand(testParams()))

	require.NoError(t, in.Backup(testParams()))
	assert.Contains(t, out.String(), "shop_backup_20260102_030405.sql")
	assert.Contains(t, out.String(), "Run this command manually")

	err := in.Backup(testParams().WithDatabase(""))
	assert.ErrorIs(t, err, psqlc.ErrMissingCredentials)
}
