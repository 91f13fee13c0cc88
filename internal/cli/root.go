package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// globalFlags holds the values of the persistent flags.
type globalFlags struct {
	configFile string
	host       string
	port       int
	user       string
	passwd     string
	upLevel    int
	downLevel  int
	debug      bool
	verbose    bool
	auth       string

	// positionalConfig is the CONFIG_FILE given before the command name.
	positionalConfig string
}

var globals globalFlags

var rootCmd = &cobra.Command{
	Use:   "psqlc [CONFIG_FILE]",
	Short: "PostgreSQL credential resolution and administration CLI",
	Long: `psqlc finds the PostgreSQL credentials of a project on its own.

It looks for a Django-style settings.py, then config.json, then any .env,
.json, .yaml, .yml or .toml file near the working directory, and extracts
the username, password, database, host and port from it. Environment
variables and flags override what the file says.

With those credentials it lists databases, tables, roles, connections,
indexes and sizes, runs ad-hoc SQL, prints pg_dump commands, and creates or
drops users and databases.

Environment:
  HOST, PORT, USER, PASSWORD         override the connection parameters
  DATABASE, DB_NAME, DB              override the database name
  PSQLC_DEBUG                        enable debug logging (1/true/ok/yes/on)
  PSQLC_CONFIG                       path to psqlc.yaml
  PSQLC_NON_INTERACTIVE              disable the interactive password prompt

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or missing credentials
  11 - Database connection failed
  12 - Operator aborted (confirmation mismatch or password declined)
  13 - SQL execution failed`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			globals.positionalConfig = args[0]
			return runConfig(cmd, nil)
		}
		return cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globals.configFile, "config", "", "Settings or config file to read credentials from")
	pf.StringVarP(&globals.host, "hostname", "H", "127.0.0.1", "PostgreSQL server address")
	pf.IntVar(&globals.port, "port", 5432, "PostgreSQL server port")
	pf.StringVarP(&globals.user, "user", "U", "postgres", "PostgreSQL superuser")
	pf.StringVarP(&globals.passwd, "passwd", "P", "", "PostgreSQL superuser password")
	pf.IntVar(&globals.upLevel, "up-level", 0, "Max parent directories searched for a config file")
	pf.IntVarP(&globals.downLevel, "down-level", "l", 1, "Max subdirectory depth searched for a config file")
	pf.BoolVar(&globals.debug, "debug", false, "Write a debug log (also $PSQLC_DEBUG)")
	pf.BoolVarP(&globals.verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&globals.auth, "auth", "password", "Authentication method: password, aws-iam, azure, google")

	_ = rootCmd.RegisterFlagCompletionFunc("auth", completeAuthMethods)
}

// Execute runs the root command with args, usually os.Args[1:].
// A leading argument that is not a command name is taken as CONFIG_FILE.
func Execute(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "--version" {
		printVersionInfo()
		return nil
	}

	globals.positionalConfig, args = splitConfigFile(rootCmd, args)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// splitConfigFile removes a leading CONFIG_FILE argument.
func splitConfigFile(root *cobra.Command, args []string) (string, []string) {
	if len(args) < 2 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	for _, c := range root.Commands() {
		if c.Name() == args[0] || c.HasAlias(args[0]) {
			return "", args
		}
	}
	if args[0] == "help" || args[0] == "completion" {
		return "", args
	}
	return args[0], args[1:]
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
