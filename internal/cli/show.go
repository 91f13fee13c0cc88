package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/inspect"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// inspectFlags holds the -d/-t values of the introspection commands.
type inspectFlags struct {
	database string
	table    string
}

var (
	showTablesFlags  inspectFlags
	showIndexesFlags inspectFlags
	showSizeFlags    inspectFlags
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show database information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var showDatabasesCmd = &cobra.Command{
	Use:     "dbs",
	Aliases: []string{"databases"},
	Short:   "List all databases",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, inspectFlags{}, false, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.ShowDatabases(ctx, p)
		})
	},
}

var showTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in a database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, showTablesFlags, true, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.ShowTables(ctx, p)
		})
	},
}

var showUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all users and roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, inspectFlags{}, false, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.ShowUsers(ctx, p)
		})
	},
}

var showConnectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Show active connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, inspectFlags{}, false, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.ShowConnections(ctx, p)
		})
	},
}

var showIndexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Show indexes of a database or table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, showIndexesFlags, true, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.ShowIndexes(ctx, p, showIndexesFlags.table)
		})
	},
}

var showSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Show database or table sizes",
	Long: `Show sizes.

Without a database, every database is listed with its size. With a
database, its tables are listed by total size. With -t, the total, heap and
index size of that table is shown.`,
	Args: cobra.NoArgs,
	RunE: runShowSize,
}

func init() {
	bindInspectFlags(showTablesCmd, &showTablesFlags, false)
	bindInspectFlags(showIndexesCmd, &showIndexesFlags, true)
	bindInspectFlags(showSizeCmd, &showSizeFlags, true)

	for _, c := range []*cobra.Command{showDatabasesCmd, showTablesCmd, showUsersCmd, showConnectionsCmd, showIndexesCmd, showSizeCmd} {
		c.ValidArgsFunction = completeNothing
		showCmd.AddCommand(c)
	}
	rootCmd.AddCommand(showCmd)
}

func runShowSize(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, runtimeOptions{
		command:     "show",
		database:    showSizeFlags.database,
		databaseSet: cmd.Flags().Changed("database"),
	})
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	in := inspect.New(rt.connector, rt.dispatcher, rt.logger).WithOutput(cmd.OutOrStdout())

	if rt.params.Database == "" {
		return in.ShowDatabaseSizes(ctx, rt.params.WithDatabase(psqlc.DefaultManagementDB))
	}
	rt.logger.Info("Using database: %s", rt.params.Database)
	if showSizeFlags.table != "" {
		return in.ShowTableSize(ctx, rt.params, showSizeFlags.table)
	}
	return in.ShowTableSizes(ctx, rt.params)
}
