package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/inspect"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var describeFlags inspectFlags

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show table structure",
	Example: `  psqlc describe -t orders
  psqlc describe -t orders -d shop`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: completeNothing,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, describeFlags, true, func(ctx context.Context, in *inspect.Inspector, p psqlc.ResolvedConnection) error {
			return in.Describe(ctx, p, describeFlags.table)
		})
	},
}

func init() {
	bindInspectFlags(describeCmd, &describeFlags, true)
	_ = describeCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(describeCmd)
}
