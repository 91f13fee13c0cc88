package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

func TestRequireCreateTriple(t *testing.T) {
	cmd := &cobra.Command{
		Use: "create [USERNAME PASSWORD DATABASE]",
	}

	t.Run("accepts no args", func(t *testing.T) {
		if err := RequireCreateTriple(cmd, nil); err != nil {
			t.Errorf("expected nil, got: %v", err)
		}
	})

	t.Run("accepts three args", func(t *testing.T) {
		if err := RequireCreateTriple(cmd, []string{"app", "pw", "appdb"}); err != nil {
			t.Errorf("expected nil, got: %v", err)
		}
	})

	for _, args := range [][]string{{"app"}, {"app", "pw"}, {"a", "b", "c", "d"}} {
		err := RequireCreateTriple(cmd, args)
		if err == nil {
			t.Fatalf("expected error for %d args, got nil", len(args))
		}
		if !strings.Contains(err.Error(), "accepts 0 or 3 arg(s)") {
			t.Errorf("expected error to contain 'accepts 0 or 3 arg(s)', got: %s", err.Error())
		}
		if !strings.Contains(err.Error(), "Example:") {
			t.Errorf("expected error to contain 'Example:', got: %s", err.Error())
		}
		if code := psqlc.ExitCodeForError(err); code != psqlc.ExitUsageError {
			t.Errorf("expected exit code %d, got %d", psqlc.ExitUsageError, code)
		}
	}
}
