//go:build conntest

package conntest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/vvka-141/psqlc/internal/db"
	"github.com/vvka-141/psqlc/internal/testinfra"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var server psqlc.ResolvedConnection

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, err := testinfra.StartSimplePostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}

	u, err := db.ParseConnectionURL(ctr.ConnString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse connection string: %v\n", err)
		ctr.Terminate(ctx) //nolint:errcheck
		os.Exit(1)
	}
	server = psqlc.ResolvedConnection{
		Host:       u.Host,
		Port:       u.Port,
		User:       u.Username,
		Password:   u.Password,
		Database:   u.Database,
		AuthMethod: psqlc.AuthMethodPassword,
		AppName:    "psqlc-conntest",
	}

	code := m.Run()
	ctr.Terminate(ctx) //nolint:errcheck
	os.Exit(code)
}
