package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/psqlc/internal/tui"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// ForcedApprover implements the Approver interface for --force runs. It
// displays a countdown and then approves without reading input.
type ForcedApprover struct {
	verbose   bool
	output    io.Writer
	sleepFn   func(time.Duration)
	countdown time.Duration
}

// NewForcedApprover creates a ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) *ForcedApprover {
	return &ForcedApprover{
		verbose:   verbose,
		output:    os.Stderr,
		sleepFn:   time.Sleep,
		countdown: psqlc.DefaultForceApprovalCountdown,
	}
}

// RequestApproval displays a countdown and approves once it completes.
func (a *ForcedApprover) RequestApproval(ctx context.Context, kind psqlc.ObjectKind, name string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, tui.ErrorStyle.Render(fmt.Sprintf("%s  DANGER: --force will DROP %s '%s' without confirmation", tui.SymbolWarning, kind, name)))
	fmt.Fprintln(a.output)

	for i := int(a.countdown.Seconds()); i > 0; i-- {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(a.output)
			return false, err
		}
		fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s Proceeding with drop of %s '%s'...                    \n", tui.SymbolCheck, kind, name)
	return true, nil
}

// ConfirmRecreate approves immediately.
func (a *ForcedApprover) ConfirmRecreate(_ context.Context, dbName string) (bool, error) {
	if a.verbose {
		fmt.Fprintf(a.output, "--force: recreating '%s'\n", dbName)
	}
	return true, nil
}

var _ psqlc.Approver = (*ForcedApprover)(nil)
