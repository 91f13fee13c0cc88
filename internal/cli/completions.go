package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// authMethods contains the --auth values for shell completion.
var authMethods = []string{"password", "aws-iam", "azure", "google"}

// completeAuthMethods provides shell completion for the --auth flag.
func completeAuthMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, m := range authMethods {
		if strings.HasPrefix(m, toComplete) {
			matches = append(matches, m)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeNothing disables file completion for commands without arguments.
func completeNothing(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveNoFileComp
}
