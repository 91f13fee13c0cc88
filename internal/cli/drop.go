package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/db/manager"
	"github.com/vvka-141/psqlc/internal/workflow"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var dropFlags struct {
	database string
	username string
	force    bool
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop a database or a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var dropDatabaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Drop a database after terminating its connections",
	Long: `Drop a database. Active connections to it are terminated first.

You must type the database name to confirm unless --force is given.`,
	Example: `  psqlc drop database -d appdb
  psqlc ./settings.py drop database`,
	Args: cobra.NoArgs,
	RunE: runDropDatabase,
}

var dropUserCmd = &cobra.Command{
	Use:     "user",
	Short:   "Drop a user",
	Example: `  psqlc drop user -u app`,
	Args:    cobra.NoArgs,
	RunE:    runDropUser,
}

func init() {
	dropCmd.PersistentFlags().BoolVar(&dropFlags.force, "force", false, "Skip the confirmation prompt")
	dropDatabaseCmd.Flags().StringVarP(&dropFlags.database, "database", "d", "", "Database to drop")
	dropUserCmd.Flags().StringVarP(&dropFlags.username, "username", "u", "", "User to drop")

	dropCmd.AddCommand(dropDatabaseCmd, dropUserCmd)
	rootCmd.AddCommand(dropCmd)
}

func runDropDatabase(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, runtimeOptions{
		command:     "drop",
		database:    dropFlags.database,
		databaseSet: cmd.Flags().Changed("database"),
	})
	if err != nil {
		return err
	}
	defer rt.close()

	wf := workflow.New(rt.connector, manager.New(), newApprover(cmd, dropFlags.force), rt.prompter, rt.logger, rt.dispatcher)
	return wf.DropDatabase(cmd.Context(), rt.params.WithDatabase(psqlc.DefaultManagementDB), rt.params.Database)
}

func runDropUser(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, runtimeOptions{command: "drop"})
	if err != nil {
		return err
	}
	defer rt.close()

	wf := workflow.New(rt.connector, manager.New(), newApprover(cmd, dropFlags.force), rt.prompter, rt.logger, rt.dispatcher)
	return wf.DropUser(cmd.Context(), rt.params.WithDatabase(psqlc.DefaultManagementDB), dropFlags.username)
}
