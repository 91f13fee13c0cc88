package cli

import (
	"errors"
	"regexp"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vvka-141/psqlc/internal/config"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

func TestApplicationName(t *testing.T) {
	name := applicationName("3f2c9a10-aaaa-bbbb-cccc-000000000000")
	if name != "psqlc-3f2c9a10" {
		t.Errorf("expected psqlc-3f2c9a10, got %q", name)
	}

	pattern := regexp.MustCompile(`^psqlc-[0-9a-f]{8}$`)
	if got := applicationName("abc"); got != "psqlc-abc" {
		t.Errorf("expected short IDs kept as is, got %q", got)
	}
	if got := applicationName("0123456789abcdef0123456789abcdef"); !pattern.MatchString(got) {
		t.Errorf("unexpected application name %q", got)
	}
}

func TestDebugEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"ok", true},
		{"yes", true},
		{" on ", true},
		{"", false},
		{"0", false},
		{"false", false},
		{"enabled", false},
	}
	for _, tt := range tests {
		if got := debugEnabled(tt.value); got != tt.want {
			t.Errorf("debugEnabled(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestTargetDatabase(t *testing.T) {
	rt := &commandRuntime{params: psqlc.ResolvedConnection{Database: "shop"}}
	db, err := rt.targetDatabase()
	if err != nil || db != "shop" {
		t.Errorf("expected shop, got %q (err %v)", db, err)
	}

	rt.params.Database = ""
	_, err = rt.targetDatabase()
	if !errors.Is(err, psqlc.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if psqlc.ExitCodeForError(err) != psqlc.ExitConfigError {
		t.Errorf("expected exit code %d", psqlc.ExitConfigError)
	}
}

func TestSearchBounds(t *testing.T) {
	saved := globals
	t.Cleanup(func() { globals = saved })

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().IntVar(&globals.upLevel, "up-level", 0, "")
		cmd.Flags().IntVarP(&globals.downLevel, "down-level", "l", 1, "")
		return cmd
	}
	three, zero := 3, 0
	fromFile := &config.ToolConfig{Search: config.SearchConfig{UpLevel: &three, DownLevel: &zero}}

	t.Run("flag defaults without psqlc.yaml", func(t *testing.T) {
		up, down := searchBounds(newCmd(), &config.ToolConfig{})
		if up != 0 || down != 1 {
			t.Errorf("expected 0/1, got %d/%d", up, down)
		}
	})

	t.Run("psqlc.yaml overrides defaults", func(t *testing.T) {
		up, down := searchBounds(newCmd(), fromFile)
		if up != 3 || down != 0 {
			t.Errorf("expected 3/0, got %d/%d", up, down)
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		cmd := newCmd()
		if err := cmd.ParseFlags([]string{"--up-level", "2", "-l", "4"}); err != nil {
			t.Fatal(err)
		}
		up, down := searchBounds(cmd, fromFile)
		if up != 2 || down != 4 {
			t.Errorf("expected 2/4, got %d/%d", up, down)
		}
	})
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "b", "c"); got != "b" {
		t.Errorf("expected b, got %q", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
