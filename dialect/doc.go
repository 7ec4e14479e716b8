// Package dialect defines the statement executor boundary.
//
// The mapper hands fully formed statements to an Executor together with the
// graph space they target. Sessions, connection pools, authentication and
// result decoding live behind that interface:
//
//	type Executor interface {
//	    Execute(ctx context.Context, space, stmt string) (*Result, error)
//	}
//
// # Wrappers
//
// Executors compose. Wrappers record, log or measure statements and return
// the wrapped executor's result and error unchanged:
//
//	exec = dialect.NewStatsExecutor(exec,
//	    dialect.WithSlowThreshold(200*time.Millisecond),
//	    dialect.WithSlowStatementLog(),
//	)
//	exec = dialect.Debug(exec, slog.Default())
//
// Recorder captures statements without a store, for tests and dry runs.
package dialect
