package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

func newTestApprover(input string) (*InteractiveApprover, *bytes.Buffer) {
	var output bytes.Buffer
	return &InteractiveApprover{input: strings.NewReader(input), output: &output}, &output
}

func TestInteractiveApprover_RequestApproval(t *testing.T) {
	tests := []struct {
		name    string
		kind    psqlc.ObjectKind
		input   string
		want    bool
		message string
	}{
		{"exact match", psqlc.ObjectDatabase, "shop\n", true, "Confirmed"},
		{"surrounding whitespace", psqlc.ObjectDatabase, "  shop  \n", true, "Confirmed"},
		{"different case", psqlc.ObjectDatabase, "Shop\n", false, "Database name mismatch. Aborted."},
		{"empty", psqlc.ObjectDatabase, "\n", false, "Database name mismatch. Aborted."},
		{"no trailing newline", psqlc.ObjectDatabase, "shop", true, "Confirmed"},
		{"user mismatch", psqlc.ObjectUser, "shopp\n", false, "Username mismatch. Aborted."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approver, output := newTestApprover(tt.input)

			approved, err := approver.RequestApproval(context.Background(), tt.kind, "shop")
			require.NoError(t, err)
			assert.Equal(t, tt.want, approved)
			assert.Contains(t, output.String(), tt.message)
			assert.Contains(t, output.String(), "WARNING")
		})
	}
}

func TestInteractiveApprover_PromptText(t *testing.T) {
	approver, output := newTestApprover("shop\n")
	_, _ = approver.RequestApproval(context.Background(), psqlc.ObjectDatabase, "shop")
	assert.Contains(t, output.String(), "Type the database name to confirm")
	assert.Contains(t, output.String(), "permanently delete")

	approver, output = newTestApprover("app\n")
	_, _ = approver.RequestApproval(context.Background(), psqlc.ObjectUser, "app")
	assert.Contains(t, output.String(), "Type the username to confirm")
	assert.NotContains(t, output.String(), "permanently delete")
}

func TestInteractiveApprover_VerboseEchoesInput(t *testing.T) {
	approver, output := newTestApprover("wrong_name\n")
	approver.verbose = true

	approved, err := approver.RequestApproval(context.Background(), psqlc.ObjectDatabase, "mydb")
	require.NoError(t, err)
	assert.False(t, approved)
	assert.Contains(t, output.String(), "wrong_name")
}

func TestInteractiveApprover_ConfirmRecreate(t *testing.T) {
	for input, want := range map[string]bool{
		"y\n":   true,
		" y \n": true,
		"Y\n":   false,
		"yes\n": false,
		"n\n":   false,
		"\n":    false,
	} {
		approver, output := newTestApprover(input)

		ok, err := approver.ConfirmRecreate(context.Background(), "shop")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "input %q", input)
		assert.Contains(t, output.String(), "Drop and recreate 'shop'? [y/N]")
	}
}

func TestInteractiveApprover_SequentialPromptsShareInput(t *testing.T) {
	approver, _ := newTestApprover("shop\ny\n")

	approved, err := approver.RequestApproval(context.Background(), psqlc.ObjectDatabase, "shop")
	require.NoError(t, err)
	assert.True(t, approved)

	recreate, err := approver.ConfirmRecreate(context.Background(), "shop")
	require.NoError(t, err)
	assert.True(t, recreate)
}

func TestInteractiveApprover_ReadError(t *testing.T) {
	approver := &InteractiveApprover{input: &errorReader{err: io.ErrUnexpectedEOF}, output: io.Discard}

	approved, err := approver.RequestApproval(context.Background(), psqlc.ObjectDatabase, "mydb")
	require.Error(t, err)
	assert.False(t, approved)
	assert.Contains(t, err.Error(), "failed to read input")
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestInteractiveApprover_ContextCancellation(t *testing.T) {
	input := newBlockingReader()
	t.Cleanup(func() { input.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &InteractiveApprover{input: input, output: io.Discard}

	approved, err := approver.RequestApproval(ctx, psqlc.ObjectDatabase, "mydb")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, approved)
}

func TestInteractiveApprover_CancelledReadAnswersNextPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pr.Close() })

	approver := &InteractiveApprover{input: pr, output: io.Discard}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := approver.RequestApproval(ctx, psqlc.ObjectDatabase, "shop")
	require.ErrorIs(t, err, context.Canceled)

	go func() { _, _ = pw.Write([]byte("shop\n")) }()

	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	approved, err := approver.RequestApproval(ctx, psqlc.ObjectDatabase, "shop")
	require.NoError(t, err)
	assert.True(t, approved)
}

func TestNewInteractiveApprover(t *testing.T) {
	approver := NewInteractiveApprover(false)
	require.NotNil(t, approver)
	assert.False(t, approver.verbose)
	assert.NotNil(t, approver.input)
	assert.NotNil(t, approver.output)
}

func TestForcedApprover_ApprovesAfterCountdown(t *testing.T) {
	var output bytes.Buffer
	sleepCalls := 0

	approver := &ForcedApprover{
		output:    &output,
		countdown: 5 * time.Second,
		sleepFn:   func(time.Duration) { sleepCalls++ },
	}

	approved, err := approver.RequestApproval(context.Background(), psqlc.ObjectDatabase, "my_production_db")
	require.NoError(t, err)
	assert.True(t, approved)
	assert.Equal(t, 5, sleepCalls)

	out := output.String()
	assert.Contains(t, out, "my_production_db")
	assert.Contains(t, out, "DANGER")
	assert.Contains(t, out, "Proceeding with drop")
}

func TestForcedApprover_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sleepCalls := 0

	approver := &ForcedApprover{
		output:    io.Discard,
		countdown: 5 * time.Second,
		sleepFn: func(time.Duration) {
			sleepCalls++
			if sleepCalls >= 2 {
				cancel()
			}
		},
	}

	approved, err := approver.RequestApproval(ctx, psqlc.ObjectUser, "app")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, approved)
	assert.Equal(t, 2, sleepCalls)
}

func TestForcedApprover_ConfirmRecreate(t *testing.T) {
	ok, err := NewForcedApprover(false).ConfirmRecreate(context.Background(), "shop")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewForcedApprover(t *testing.T) {
	fa := NewForcedApprover(true)
	assert.True(t, fa.verbose)
	assert.NotNil(t, fa.output)
	assert.NotNil(t, fa.sleepFn)
	assert.Equal(t, psqlc.DefaultForceApprovalCountdown, fa.countdown)
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{done: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}

func TestInteractiveApprover_WithIO(t *testing.T) {
	var output bytes.Buffer
	approver := NewInteractiveApprover(true).WithIO(strings.NewReader("shop\n"), &output)

	approved, err := approver.RequestApproval(context.Background(), psqlc.ObjectDatabase, "shop")
	require.NoError(t, err)
	assert.True(t, approved)
	assert.True(t, approver.verbose)
	assert.Contains(t, output.String(), "shop")
}
