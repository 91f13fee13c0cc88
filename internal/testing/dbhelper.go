package testing

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/vvka-141/psqlc/internal/db"
	"github.com/vvka-141/psqlc/internal/testinfra"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartSimplePostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the superuser URL of the test server.
// Priority: PSQLC_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("PSQLC_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("PSQLC_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// RequireDatabase skips in short mode, otherwise returns the superuser
// connection to the test server.
func RequireDatabase(t *testing.T) psqlc.ResolvedConnection {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	u, err := db.ParseConnectionURL(GetTestConnectionString(t))
	if err != nil {
		t.Fatalf("invalid test connection string: %v", err)
	}
	port := u.Port
	if port == 0 {
		port = psqlc.DefaultPort
	}
	return psqlc.ResolvedConnection{
		Host:       u.Host,
		Port:       port,
		User:       u.Username,
		Password:   u.Password,
		Database:   psqlc.DefaultManagementDB,
		AuthMethod: psqlc.AuthMethodPassword,
		AppName:    "psqlc-test",
	}
}
