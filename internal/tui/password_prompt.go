package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// ErrPromptCancelled is returned when the operator leaves the prompt with
// esc or ctrl+c.
var ErrPromptCancelled = errors.New("prompt cancelled")

// passwordModel is a single masked input line.
type passwordModel struct {
	prompt    string
	input     textinput.Model
	keys      KeyMap
	submitted bool
	cancelled bool
}

func newPasswordModel(prompt string) passwordModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 1024
	ti.Focus()

	return passwordModel{
		prompt: prompt,
		input:  ti,
		keys:   DefaultKeyMap(),
	}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Submit):
			m.submitted = true
			return m, tea.Quit
		case key.Matches(k, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(PromptStyle.Render(m.prompt))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.keys.HelpText()))
	return b.String()
}

// Value returns the entered secret.
func (m passwordModel) Value() string {
	return m.input.Value()
}

// PasswordPrompt reads secrets with a masked bubbletea input line.
type PasswordPrompt struct {
	input  io.Reader
	output io.Writer
}

// NewPasswordPrompt creates a PasswordPrompt on the process terminal.
func NewPasswordPrompt() *PasswordPrompt {
	return &PasswordPrompt{input: os.Stdin, output: os.Stderr}
}

// ReadSecret runs the prompt until the operator submits or cancels.
func (p *PasswordPrompt) ReadSecret(ctx context.Context, prompt string) (string, error) {
	program := tea.NewProgram(newPasswordModel(prompt),
		tea.WithContext(ctx),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
	)

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("password prompt: %w", err)
	}

	m, ok := final.(passwordModel)
	if !ok {
		return "", fmt.Errorf("password prompt: unexpected model %T", final)
	}
	if m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.Value(), nil
}

var _ psqlc.Prompter = (*PasswordPrompt)(nil)
