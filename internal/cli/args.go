package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireCreateTriple accepts either no arguments or exactly
// NEW_USERNAME NEW_PASSWORD NEW_DB.
func RequireCreateTriple(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 3 {
		return nil
	}
	return fmt.Errorf(`accepts 0 or 3 arg(s), received %d

Usage: %s

Example:
  %s shop_app s3cret shop`, len(args), cmd.UseLine(), cmd.CommandPath())
}
