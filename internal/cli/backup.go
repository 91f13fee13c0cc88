package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/inspect"
)

var backupFlags inspectFlags

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Print a pg_dump command for a database",
	Long: `Print the pg_dump command that backs up a database to
<db>_backup_<YYYYmmdd_HHMMSS>.sql. The command is printed, never executed.`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: completeNothing,
	RunE: runBackup,
}

func init() {
	bindInspectFlags(backupCmd, &backupFlags, false)
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, runtimeOptions{
		command:     "backup",
		database:    backupFlags.database,
		databaseSet: cmd.Flags().Changed("database"),
	})
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.targetDatabase(); err != nil {
		return err
	}
	in := inspect.New(rt.connector, rt.dispatcher, rt.logger).WithOutput(cmd.OutOrStdout())
	return in.Backup(rt.params)
}
