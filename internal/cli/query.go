package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/inspect"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var queryFlags struct {
	inspectFlags
	sql      string
	readonly bool
	limit    int
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Execute a SQL query",
	Long: `Execute a SQL query against a database.

Row-returning statements are rendered as a table of at most --limit rows.
Anything else is executed and reported. With --readonly, statements
containing DROP, DELETE, TRUNCATE, ALTER, CREATE, INSERT or UPDATE are
rejected before connecting.`,
	Example: `  psqlc query -q "SELECT * FROM orders" --limit 20
  psqlc query -d shop -q "SELECT count(*) FROM orders" --readonly`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: completeNothing,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := inspect.QueryOptions{SQL: queryFlags.sql, ReadOnly: queryFlags.readonly, Limit: queryFlags.limit}
		if opts.ReadOnly {
			if err := inspect.CheckReadOnly(opts.SQL); err != nil {
				return err
			}
		}
		return runInspect(cmd, queryFlags.inspectFlags, true, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.Query(ctx, p, opts)
		})
	},
}

func init() {
	bindInspectFlags(queryCmd, &queryFlags.inspectFlags, false)
	queryCmd.Flags().StringVarP(&queryFlags.sql, "query", "q", "", "SQL query to execute")
	queryCmd.Flags().BoolVar(&queryFlags.readonly, "readonly", false, "Reject destructive statements")
	queryCmd.Flags().IntVar(&queryFlags.limit, "limit", psqlc.DefaultQueryLimit, "Maximum rows displayed")
	_ = queryCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(queryCmd)
}
