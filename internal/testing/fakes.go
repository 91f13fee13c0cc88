package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

type execRule struct {
	fragment string
	err      error
}

type rowRule struct {
	fragment string
	values   []any
	err      error
}

type queryRule struct {
	fragment string
	result   *psqlc.ResultSet
	err      error
}

// FakeSession is a scripted psqlc.Session recording every statement.
// Rules match when their fragment occurs in the SQL text; the first
// registered match wins. Unmatched Exec calls succeed, unmatched QueryRow
// calls return pgx.ErrNoRows and unmatched Query calls return no rows.
type FakeSession struct {
	Params psqlc.ResolvedConnection

	mu         sync.Mutex
	statements []string
	args       [][]any
	execRules  []execRule
	rowRules   []rowRule
	queryRules []queryRule
	closed     int
}

// NewFakeSession creates an empty FakeSession.
func NewFakeSession() *FakeSession {
	return &FakeSession{}
}

// OnExec makes Exec fail with err when the SQL contains fragment.
func (s *FakeSession) OnExec(fragment string, err error) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execRules = append(s.execRules, execRule{fragment: fragment, err: err})
	return s
}

// OnQueryRow makes QueryRow return one row with values when the SQL contains fragment.
func (s *FakeSession) OnQueryRow(fragment string, values ...any) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowRules = append(s.rowRules, rowRule{fragment: fragment, values: values})
	return s
}

// OnQueryRowError makes QueryRow's Scan fail with err when the SQL contains fragment.
func (s *FakeSession) OnQueryRowError(fragment string, err error) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowRules = append(s.rowRules, rowRule{fragment: fragment, err: err})
	return s
}

// OnQuery makes Query return result (or err) when the SQL contains fragment.
func (s *FakeSession) OnQuery(fragment string, result *psqlc.ResultSet, err error) *FakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryRules = append(s.queryRules, queryRule{fragment: fragment, result: result, err: err})
	return s
}

func (s *FakeSession) record(sql string, args []any) {
	s.statements = append(s.statements, normalizeSQL(sql))
	s.args = append(s.args, args)
}

func (s *FakeSession) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sql, args)

	for _, r := range s.execRules {
		if strings.Contains(sql, r.fragment) {
			if r.err != nil {
				return pgconn.CommandTag{}, r.err
			}
			break
		}
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (s *FakeSession) QueryRow(_ context.Context, sql string, args ...any) psqlc.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sql, args)

	for _, r := range s.rowRules {
		if strings.Contains(sql, r.fragment) {
			return &FakeRow{Values: r.values, Err: r.err}
		}
	}
	return &FakeRow{Err: pgx.ErrNoRows}
}

func (s *FakeSession) Query(_ context.Context, sql string, args ...any) (*psqlc.ResultSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(sql, args)

	for _, r := range s.queryRules {
		if strings.Contains(sql, r.fragment) {
			return r.result, r.err
		}
	}
	return &psqlc.ResultSet{}, nil
}

func (s *FakeSession) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Statements returns the whitespace-normalized SQL of every call in order.
func (s *FakeSession) Statements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statements...)
}

// Args returns the bind arguments of every call in order.
func (s *FakeSession) Args() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.args...)
}

// Closed returns how many times Close was called.
func (s *FakeSession) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func normalizeSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

// FakeRow scans fixed values into common destination types.
type FakeRow struct {
	Values []any
	Err    error
}

func (r *FakeRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if len(dest) != len(r.Values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.Values))
	}
	for i, d := range dest {
		v := r.Values[i]
		switch p := d.(type) {
		case *any:
			*p = v
		case *string:
			*p = fmt.Sprint(v)
		case *bool:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("scan: value %d is %T, not bool", i, v)
			}
			*p = b
		case *int:
			n, ok := v.(int)
			if !ok {
				return fmt.Errorf("scan: value %d is %T, not int", i, v)
			}
			*p = n
		case *int64:
			n, ok := v.(int64)
			if !ok {
				return fmt.Errorf("scan: value %d is %T, not int64", i, v)
			}
			*p = n
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

// FakeConnector hands out FakeSessions and records every Connect call.
type FakeConnector struct {
	// Fail, when set, decides whether a Connect call fails.
	Fail func(params psqlc.ResolvedConnection) error

	// Prepare, when set, scripts each new session before it is returned.
	Prepare func(params psqlc.ResolvedConnection, s *FakeSession)

	mu       sync.Mutex
	calls    []psqlc.ResolvedConnection
	sessions []*FakeSession
}

func (c *FakeConnector) Connect(_ context.Context, params psqlc.ResolvedConnection) (psqlc.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, params)

	if c.Fail != nil {
		if err := c.Fail(params); err != nil {
			return nil, err
		}
	}

	s := NewFakeSession()
	s.Params = params
	if c.Prepare != nil {
		c.Prepare(params, s)
	}
	c.sessions = append(c.sessions, s)
	return s, nil
}

// Calls returns the parameters of every Connect call in order.
func (c *FakeConnector) Calls() []psqlc.ResolvedConnection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]psqlc.ResolvedConnection(nil), c.calls...)
}

// Sessions returns every session handed out in order.
func (c *FakeConnector) Sessions() []*FakeSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*FakeSession(nil), c.sessions...)
}

// AllStatements returns the statements of every session in order.
func (c *FakeConnector) AllStatements() []string {
	var out []string
	for _, s := range c.Sessions() {
		out = append(out, s.Statements()...)
	}
	return out
}

// ScriptedPrompter answers secret prompts from a fixed list, then with "".
type ScriptedPrompter struct {
	Answers []string
	Err     error

	mu      sync.Mutex
	prompts []string
}

func (p *ScriptedPrompter) ReadSecret(_ context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Answers) == 0 {
		return "", nil
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return answer, nil
}

// Prompts returns every prompt shown in order.
func (p *ScriptedPrompter) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// StubApprover returns fixed answers.
type StubApprover struct {
	Approve  bool
	Recreate bool

	ApprovalRequests []string
	RecreateRequests []string
}

func (a *StubApprover) RequestApproval(_ context.Context, kind psqlc.ObjectKind, name string) (bool, error) {
	a.ApprovalRequests = append(a.ApprovalRequests, string(kind)+":"+name)
	return a.Approve, nil
}

func (a *StubApprover) ConfirmRecreate(_ context.Context, dbName string) (bool, error) {
	a.RecreateRequests = append(a.RecreateRequests, dbName)
	return a.Recreate, nil
}

// RecordingLogger keeps every message by level.
type RecordingLogger struct {
	mu                      sync.Mutex
	VerboseLines, InfoLines []string
	WarnLines, ErrorLines   []string
}

func (l *RecordingLogger) add(dst *[]string, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.add(&l.VerboseLines, format, args)
}

func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.add(&l.InfoLines, format, args)
}

func (l *RecordingLogger) Warn(format string, args ...interface{}) {
	l.add(&l.WarnLines, format, args)
}

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.add(&l.ErrorLines, format, args)
}

var (
	_ psqlc.Session   = (*FakeSession)(nil)
	_ psqlc.Connector = (*FakeConnector)(nil)
	_ psqlc.Prompter  = (*ScriptedPrompter)(nil)
	_ psqlc.Approver  = (*StubApprover)(nil)
	_ psqlc.Logger    = (*RecordingLogger)(nil)
)
