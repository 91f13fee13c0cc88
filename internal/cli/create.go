package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/db/manager"
	"github.com/vvka-141/psqlc/internal/ui"
	"github.com/vvka-141/psqlc/internal/workflow"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var createFlags struct {
	username string
	password string
	database string
	force    bool
}

var createCmd = &cobra.Command{
	Use:   "create [USERNAME PASSWORD DATABASE]",
	Short: "Create a user and a database owned by it",
	Long: `Create an application user and its database.

The user is created (or updated) with LOGIN CREATEDB REPLICATION BYPASSRLS,
then the database is created while connected as that user. When the
database already exists you are asked whether to drop and recreate it.

Targets come from the positional triple, then -u/-p/-d, then the discovered
settings. The administrative connection uses --user/--passwd, environment
variables or psqlc.yaml; if no password is known you are prompted for it.`,
	Example: `  psqlc create app s3cret appdb
  psqlc create -u app -p s3cret -d appdb -H db.internal
  psqlc ./settings.py create`,
	Args: RequireCreateTriple,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createFlags.username, "username", "u", "", "Application username")
	createCmd.Flags().StringVarP(&createFlags.password, "password", "p", "", "Application password")
	createCmd.Flags().StringVarP(&createFlags.database, "database", "d", "", "Application database")
	createCmd.Flags().BoolVar(&createFlags.force, "force", false, "Recreate an existing database without asking")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, runtimeOptions{
		command:  "create",
		noSearch: len(args) == 3,
	})
	if err != nil {
		return err
	}
	defer rt.close()

	targets, err := workflow.ResolveCreateTargets(args, workflow.CreateTargets{
		Username: createFlags.username,
		Password: createFlags.password,
		Database: createFlags.database,
	}, rt.record)
	if err != nil {
		return err
	}

	wf := workflow.New(rt.connector, manager.New(), newApprover(cmd, createFlags.force), rt.prompter, rt.logger, rt.dispatcher)
	return wf.CreateUserDatabase(cmd.Context(), rt.params.WithDatabase(psqlc.DefaultManagementDB), targets)
}

func newApprover(cmd *cobra.Command, force bool) psqlc.Approver {
	verbose := getVerboseFlag(cmd)
	if force {
		return ui.NewForcedApprover(verbose)
	}
	return ui.NewInteractiveApprover(verbose).WithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
}
