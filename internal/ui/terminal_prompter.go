package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// TerminalPrompter reads secrets without echo when stdin is a terminal and
// falls back to reading a plain line from piped input.
type TerminalPrompter struct {
	fd           int
	input        io.Reader
	output       io.Writer
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)

	mu      sync.Mutex
	reader  *bufio.Reader
	pending chan secretResult
}

type secretResult struct {
	value string
	err   error
}

// NewTerminalPrompter creates a TerminalPrompter on stdin, prompting on stderr.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		fd:           int(os.Stdin.Fd()),
		input:        os.Stdin,
		output:       os.Stderr,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// ReadSecret displays prompt and returns the entered value with the line
// ending removed. A read abandoned by cancellation stays in flight and
// answers the next call instead of starting a second reader.
func (p *TerminalPrompter) ReadSecret(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.output, prompt)

	p.mu.Lock()
	if p.pending == nil {
		p.pending = p.startRead()
	}
	pending := p.pending
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-pending:
		p.mu.Lock()
		p.pending = nil
		p.mu.Unlock()
		if r.err != nil {
			return "", fmt.Errorf("failed to read secret: %w", r.err)
		}
		return r.value, nil
	}
}

// startRead launches the single background read. Callers hold p.mu.
func (p *TerminalPrompter) startRead() chan secretResult {
	done := make(chan secretResult, 1)
	if p.isTerminal(p.fd) {
		go func() {
			b, err := p.readPassword(p.fd)
			fmt.Fprintln(p.output)
			done <- secretResult{string(b), err}
		}()
		return done
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.input)
	}
	reader := p.reader
	go func() {
		line, err := reader.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		done <- secretResult{strings.TrimRight(line, "\r\n"), err}
	}()
	return done
}

var _ psqlc.Prompter = (*TerminalPrompter)(nil)
