package psqlc

import "context"

// ObjectKind names the kind of object a destructive confirmation refers to.
type ObjectKind string

const (
	ObjectDatabase ObjectKind = "database"
	ObjectUser     ObjectKind = "user"
)

// Approver handles operator confirmation for destructive operations.
//
// Implementations:
//   - ui.InteractiveApprover: prompts on the terminal
//   - test doubles scripted with fixed answers
type Approver interface {
	// RequestApproval asks the operator to re-type name exactly.
	// Returns true only for an exact, case-sensitive match of the trimmed input.
	RequestApproval(ctx context.Context, kind ObjectKind, name string) (bool, error)

	// ConfirmRecreate asks whether an existing database should be dropped and
	// recreated. Only an explicit "y" approves.
	ConfirmRecreate(ctx context.Context, dbName string) (bool, error)
}

// Prompter reads secrets from the operator without echoing them.
type Prompter interface {
	// ReadSecret displays prompt and returns the entered value.
	ReadSecret(ctx context.Context, prompt string) (string, error)
}
