package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where credentials come from and the resolved connection",
	Long: `Show the discovered configuration artifact, the credentials extracted
from it and the connection every other command would use. Passwords are
masked.

Running psqlc with only a CONFIG_FILE argument does the same for that file.`,
	Example: `  psqlc config
  psqlc ./project/settings.py
  psqlc --config .env config`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: completeNothing,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, runtimeOptions{command: "config"})
	if err != nil {
		return err
	}
	defer rt.close()

	printResolution(cmd.OutOrStdout(), rt)
	return nil
}

func printResolution(w io.Writer, rt *commandRuntime) {
	if rt.found {
		fmt.Fprintf(w, "Artifact:  %s (%s)\n", rt.artifact.Path, rt.artifact.Kind)
	} else {
		fmt.Fprintln(w, "Artifact:  none found")
	}
	if rt.record.IsEmpty() {
		fmt.Fprintln(w, "Record:    no credentials extracted")
	} else {
		fmt.Fprintf(w, "Record:    user=%s password=%s database=%s host=%s port=%s\n",
			orDash(rt.record.Username), orDash(psqlc.MaskSecret(rt.record.Password)), orDash(rt.record.Database),
			orDash(rt.record.Host), portOrDash(rt.record.Port))
	}

	p := rt.params
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Host:      %s\n", p.Host)
	fmt.Fprintf(w, "Port:      %d\n", p.Port)
	fmt.Fprintf(w, "User:      %s\n", p.User)
	fmt.Fprintf(w, "Password:  %s\n", orDash(psqlc.MaskSecret(p.Password)))
	fmt.Fprintf(w, "Database:  %s\n", orDash(p.Database))
	fmt.Fprintf(w, "Auth:      %s\n", p.AuthMethod)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func portOrDash(port int) string {
	if port == 0 {
		return "-"
	}
	return fmt.Sprint(port)
}
