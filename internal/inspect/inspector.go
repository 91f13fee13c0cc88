package inspect

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/vvka-141/psqlc/internal/workflow"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// Runner executes an operation with permission escalation.
type Runner interface {
	Execute(ctx context.Context, params psqlc.ResolvedConnection, op workflow.Operation) error
}

// Inspector runs introspection commands and renders their results.
type Inspector struct {
	connector psqlc.Connector
	runner    Runner
	logger    psqlc.Logger
	out       io.Writer
	now       func() time.Time
}

// New creates an Inspector writing tables to stdout.
// Panics if connector, runner or logger is nil.
func New(connector psqlc.Connector, runner Runner, logger psqlc.Logger) *Inspector {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if runner == nil {
		panic("runner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Inspector{
		connector: connector,
		runner:    runner,
		logger:    logger,
		out:       os.Stdout,
		now:       time.Now,
	}
}

// WithOutput returns a copy of the inspector rendering to w.
func (i *Inspector) WithOutput(w io.Writer) *Inspector {
	clone := *i
	clone.out = w
	return &clone
}

// WithClock returns a copy of the inspector reading the time from now.
func (i *Inspector) WithClock(now func() time.Time) *Inspector {
	clone := *i
	clone.now = now
	return &clone
}

// run opens a session for params through the runner and closes it after fn.
func (i *Inspector) run(ctx context.Context, params psqlc.ResolvedConnection, fn func(psqlc.Session) error) error {
	return i.runner.Execute(ctx, params, func(ctx context.Context, p psqlc.ResolvedConnection) error {
		session, err := i.connector.Connect(ctx, p)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
				i.logger.Verbose("closing session: %v", cerr)
			}
		}()
		return fn(session)
	})
}

// fetch runs query and returns the materialized rows.
func (i *Inspector) fetch(ctx context.Context, params psqlc.ResolvedConnection, query string, args ...any) (*psqlc.ResultSet, error) {
	var result *psqlc.ResultSet
	err := i.run(ctx, params, func(s psqlc.Session) error {
		rs, err := s.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		result = rs
		return nil
	})
	return result, err
}
