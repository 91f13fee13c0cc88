package workflow

import (
	"context"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// Workflow implements the create and drop operations.
// Thread-Safety: NOT safe for concurrent use; one command runs per process.
type Workflow struct {
	connector  psqlc.Connector
	manager    psqlc.DatabaseManager
	approver   psqlc.Approver
	prompter   psqlc.Prompter
	logger     psqlc.Logger
	dispatcher *Dispatcher
}

// New creates a Workflow. Administrative steps run through dispatcher so a
// permission failure is retried once with an elevated password.
// Panics on nil dependencies.
func New(
	connector psqlc.Connector,
	manager psqlc.DatabaseManager,
	approver psqlc.Approver,
	prompter psqlc.Prompter,
	logger psqlc.Logger,
	dispatcher *Dispatcher,
) *Workflow {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if manager == nil {
		panic("manager cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if prompter == nil {
		panic("prompter cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if dispatcher == nil {
		panic("dispatcher cannot be nil")
	}
	return &Workflow{
		connector:  connector,
		manager:    manager,
		approver:   approver,
		prompter:   prompter,
		logger:     logger,
		dispatcher: dispatcher,
	}
}

// withSession opens a session for params, runs fn and closes the session.
func (w *Workflow) withSession(ctx context.Context, params psqlc.ResolvedConnection, fn func(psqlc.Session) error) error {
	session, err := w.connector.Connect(ctx, params)
	if err != nil {
		return err
	}
	defer w.closeSession(ctx, session)
	return fn(session)
}

func (w *Workflow) closeSession(ctx context.Context, session psqlc.Session) {
	if err := session.Close(context.WithoutCancel(ctx)); err != nil {
		w.logger.Verbose("closing session: %v", err)
	}
}
