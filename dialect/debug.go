package dialect

import (
	"context"
	"log/slog"
	"time"
)

// DebugExecutor logs every statement before running it.
type DebugExecutor struct {
	Executor
	logger *slog.Logger
}

// Debug wraps exec with debug logging. A nil logger uses slog.Default().
func Debug(exec Executor, logger *slog.Logger) *DebugExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugExecutor{Executor: exec, logger: logger}
}

// Execute logs the statement and runs it.
func (d *DebugExecutor) Execute(ctx context.Context, space, stmt string) (*Result, error) {
	start := time.Now()
	res, err := d.Executor.Execute(ctx, space, stmt)
	attrs := []any{"space", space, "stmt", stmt, "duration", time.Since(start)}
	if err != nil {
		d.logger.DebugContext(ctx, "statement failed", append(attrs, "error", err)...)
		return res, err
	}
	d.logger.DebugContext(ctx, "statement executed", append(attrs, "rows", res.Len())...)
	return res, nil
}
