package dialect

import (
	"context"
	"slices"
	"sync"
)

// Executor sends a statement to the graph store.
type Executor interface {
	// Execute runs stmt in space. An empty space leaves the session's
	// current space unchanged.
	Execute(ctx context.Context, space, stmt string) (*Result, error)
}

// ExecutorFunc adapts an ordinary function to the Executor interface.
type ExecutorFunc func(ctx context.Context, space, stmt string) (*Result, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, space, stmt string) (*Result, error) {
	return f(ctx, space, stmt)
}

// Row is one result row keyed by column name.
type Row map[string]any

// Result is the decoded outcome of a statement.
type Result struct {
	Columns  []string `msgpack:"columns"`
	Rows     []Row    `msgpack:"rows"`
	Affected int      `msgpack:"affected"`
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Column returns the values of one column, in row order.
func (r *Result) Column(name string) []any {
	if r == nil {
		return nil
	}
	vs := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		vs[i] = row[name]
	}
	return vs
}

// Statement is a statement seen by a Recorder.
type Statement struct {
	Space string
	Stmt  string
}

// Recorder is an Executor that records statements instead of running them.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	stmts   []Statement
	respond ExecutorFunc
}

// NewRecorder returns a Recorder. When respond is non-nil its result and
// error are returned for every statement; otherwise an empty result is.
func NewRecorder(respond ExecutorFunc) *Recorder {
	return &Recorder{respond: respond}
}

// Execute implements Executor.
func (r *Recorder) Execute(ctx context.Context, space, stmt string) (*Result, error) {
	r.mu.Lock()
	r.stmts = append(r.stmts, Statement{Space: space, Stmt: stmt})
	r.mu.Unlock()
	if r.respond != nil {
		return r.respond(ctx, space, stmt)
	}
	return &Result{}, nil
}

// Statements returns the recorded statements in execution order.
func (r *Recorder) Statements() []Statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.stmts)
}

// Reset drops the recorded statements.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = nil
}
