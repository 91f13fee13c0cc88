package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/vvka-141/psqlc/internal/tui"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. Destructive operations require the operator to
// type the object name exactly.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer

	mu      sync.Mutex
	reader  *bufio.Reader
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewInteractiveApprover creates an InteractiveApprover reading stdin and
// writing to stderr.
func NewInteractiveApprover(verbose bool) *InteractiveApprover {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// WithIO returns a copy of the approver reading from in and writing to out.
func (a *InteractiveApprover) WithIO(in io.Reader, out io.Writer) *InteractiveApprover {
	return &InteractiveApprover{verbose: a.verbose, input: in, output: out}
}

// RequestApproval prompts the operator to type name to confirm dropping it.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, kind psqlc.ObjectKind, name string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, tui.WarningStyle.Render(fmt.Sprintf("%s  WARNING: You are about to DROP %s '%s'", tui.SymbolWarning, kind, name)))
	if kind == psqlc.ObjectDatabase {
		fmt.Fprintln(a.output, "This will permanently delete all data in this database!")
	}
	fmt.Fprint(a.output, tui.PromptStyle.Render(fmt.Sprintf("Type the %s to confirm: ", confirmLabel(kind))))

	input, err := a.readLine(ctx)
	if err != nil {
		return false, err
	}
	if input != name {
		fmt.Fprintln(a.output, tui.ErrorStyle.Render(fmt.Sprintf("%s %s mismatch. Aborted.", tui.SymbolCross, mismatchLabel(kind))))
		if a.verbose {
			fmt.Fprintf(a.output, "Input '%s' does not match '%s'.\n", input, name)
		}
		return false, nil
	}

	fmt.Fprintln(a.output, tui.SuccessStyle.Render(tui.SymbolCheck+" Confirmed."))
	return true, nil
}

// ConfirmRecreate asks whether an existing database should be dropped and
// recreated. Only a lowercase "y" approves.
func (a *InteractiveApprover) ConfirmRecreate(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprint(a.output, tui.WarningStyle.Render(fmt.Sprintf("Drop and recreate '%s'? [y/N] ", dbName)))

	input, err := a.readLine(ctx)
	if err != nil {
		return false, err
	}
	return input == "y", nil
}

func confirmLabel(kind psqlc.ObjectKind) string {
	if kind == psqlc.ObjectUser {
		return "username"
	}
	return "database name"
}

func mismatchLabel(kind psqlc.ObjectKind) string {
	if kind == psqlc.ObjectUser {
		return "Username"
	}
	return "Database name"
}

// readLine reads one trimmed line, giving up when ctx is done. A read
// abandoned by cancellation stays in flight and answers the next call, so
// at most one goroutine ever reads the shared input.
func (a *InteractiveApprover) readLine(ctx context.Context) (string, error) {
	a.mu.Lock()
	if a.reader == nil {
		a.reader = bufio.NewReader(a.input)
	}
	if a.pending == nil {
		ch := make(chan lineResult, 1)
		reader := a.reader
		go func() {
			input, err := reader.ReadString('\n')
			if err != nil && (err != io.EOF || input == "") {
				ch <- lineResult{err: err}
				return
			}
			ch <- lineResult{line: strings.TrimSpace(input)}
		}()
		a.pending = ch
	}
	pending := a.pending
	a.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-pending:
		a.mu.Lock()
		a.pending = nil
		a.mu.Unlock()
		if r.err != nil {
			return "", fmt.Errorf("failed to read input: %w", r.err)
		}
		return r.line, nil
	}
}

var _ psqlc.Approver = (*InteractiveApprover)(nil)
