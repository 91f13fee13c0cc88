package manager_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/psqlc/internal/db/manager"
	"github.com/vvka-141/psqlc/internal/retry"
	testhelpers "github.com/vvka-141/psqlc/internal/testing"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

func TestManager_CreateUser_QuotesIdentifierAndLiteral(t *testing.T) {
	session := testhelpers.NewFakeSession()

	err := manager.New().CreateUser(context.Background(), session, `o"neil`, `it's; DROP ROLE x`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`CREATE USER "o""neil" WITH PASSWORD 'it''s; DROP ROLE x'`,
	}, session.Statements())
}

func TestManager_GrantUserAttributes(t *testing.T) {
	session := testhelpers.NewFakeSession()

	require.NoError(t, manager.New().GrantUserAttributes(context.Background(), session, "app"))
	assert.Equal(t, []string{`ALTER USER "app" WITH LOGIN CREATEDB REPLICATION BYPASSRLS`}, session.Statements())
}

func TestManager_DropStatementsUseIfExists(t *testing.T) {
	session := testhelpers.NewFakeSession()
	mgr := manager.New()

	require.NoError(t, mgr.Drop(context.Background(), session, "my database"))
	require.NoError(t, mgr.DropUser(context.Background(), session, "app"))
	require.NoError(t, mgr.Create(context.Background(), session, "shop"))

	assert.Equal(t, []string{
		`DROP DATABASE IF EXISTS "my database"`,
		`DROP USER IF EXISTS "app"`,
		`CREATE DATABASE "shop"`,
	}, session.Statements())
}

func TestManager_SpecialCharactersAreQuoted(t *testing.T) {
	testCases := []struct {
		name   string
		dbName string
		want   string
	}{
		{"spaces", "my database", `CREATE DATABASE "my database"`},
		{"quotes", `my"database`, `CREATE DATABASE "my""database"`},
		{"semicolon", "my;database", `CREATE DATABASE "my;database"`},
		{"sql injection attempt", `x"; DROP DATABASE postgres; --`, `CREATE DATABASE "x""; DROP DATABASE postgres; --"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			session := testhelpers.NewFakeSession()
			require.NoError(t, manager.New().Create(context.Background(), session, tc.dbName))
			assert.Equal(t, []string{tc.want}, session.Statements())
		})
	}
}

func TestManager_Exists(t *testing.T) {
	ctx := context.Background()
	mgr := manager.New()

	present := testhelpers.NewFakeSession().OnQueryRow("FROM pg_database", 1)
	exists, err := mgr.Exists(ctx, present, "shop")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, [][]any{{"shop"}}, present.Args())

	absent := testhelpers.NewFakeSession()
	exists, err = mgr.Exists(ctx, absent, "shop")
	require.NoError(t, err)
	assert.False(t, exists)

	broken := testhelpers.NewFakeSession().OnQueryRowError("FROM pg_database", errors.New("boom"))
	_, err = mgr.Exists(ctx, broken, "shop")
	assert.True(t, errors.Is(err, psqlc.ErrExecutionFailed))
}

func TestManager_TerminateConnectionsBindsName(t *testing.T) {
	session := testhelpers.NewFakeSession()

	require.NoError(t, manager.New().TerminateConnections(context.Background(), session, "shop"))

	require.Len(t, session.Statements(), 1)
	assert.Contains(t, session.Statements()[0], "pg_terminate_backend(pid)")
	assert.Contains(t, session.Statements()[0], "pid <> pg_backend_pid()")
	assert.Equal(t, [][]any{{"shop"}}, session.Args())
}

func TestManager_ErrorsStayClassifiable(t *testing.T) {
	dup := &pgconn.PgError{Code: "42710", Message: `role "app" already exists`}
	denied := &pgconn.PgError{Code: "42501", Message: "permission denied to create role"}

	session := testhelpers.NewFakeSession().
		OnExec("CREATE USER", dup).
		OnExec("ALTER USER", denied)
	mgr := manager.New()

	err := mgr.CreateUser(context.Background(), session, "app", "pw")
	assert.True(t, errors.Is(err, psqlc.ErrExecutionFailed))
	assert.Equal(t, retry.KindDuplicateObject, retry.Classify(err))

	err = mgr.GrantUserAttributes(context.Background(), session, "app")
	assert.Equal(t, retry.KindPermission, retry.Classify(err))
}
