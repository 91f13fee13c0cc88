package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/inspect"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

type inspectFunc func(ctx context.Context, in *inspect.Inspector, params psqlc.ResolvedConnection) error

// bindInspectFlags registers -d/--database and, when withTable is set,
// -t/--table on cmd.
func bindInspectFlags(cmd *cobra.Command, f *inspectFlags, withTable bool) {
	cmd.Flags().StringVarP(&f.database, "database", "d", "", "Database name (auto-detected if not provided)")
	if withTable {
		cmd.Flags().StringVarP(&f.table, "table", "t", "", "Table name")
	}
}

// runInspect resolves the connection and runs fn. Commands that need a
// database use the resolved one and fail without it; the others run on the
// maintenance database.
func runInspect(cmd *cobra.Command, f inspectFlags, needsDatabase bool, fn inspectFunc) error {
	rt, err := newRuntime(cmd, runtimeOptions{
		command:     cmd.Name(),
		database:    f.database,
		databaseSet: cmd.Flags().Changed("database"),
	})
	if err != nil {
		return err
	}
	defer rt.close()

	params := rt.params.WithDatabase(psqlc.DefaultManagementDB)
	if needsDatabase {
		dbName, err := rt.targetDatabase()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("database") {
			rt.logger.Info("Using database: %s", dbName)
		}
		params = rt.params
	}

	in := inspect.New(rt.connector, rt.dispatcher, rt.logger).WithOutput(cmd.OutOrStdout())
	return fn(cmd.Context(), in, params)
}
