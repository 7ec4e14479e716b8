package dialect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds statement execution statistics.
type Stats struct {
	// Statements is the total number of statements executed.
	Statements atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowStatements is the count of statements exceeding the slow threshold.
	SlowStatements atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
}

// Snapshot returns a snapshot of the current statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Statements:     s.Statements.Load(),
		TotalDuration:  time.Duration(s.TotalDuration.Load()),
		SlowStatements: s.SlowStatements.Load(),
		Errors:         s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *Stats) Reset() {
	s.Statements.Store(0)
	s.TotalDuration.Store(0)
	s.SlowStatements.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of statement statistics.
type StatsSnapshot struct {
	Statements     int64
	TotalDuration  time.Duration
	SlowStatements int64
	Errors         int64
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.Statements == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Statements)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"statements=%d duration=%s avg=%s slow=%d errors=%d",
		s.Statements, s.TotalDuration, s.AvgDuration(), s.SlowStatements, s.Errors,
	)
}

// SlowStatementHook is a function called when a slow statement is detected.
type SlowStatementHook func(ctx context.Context, space, stmt string, duration time.Duration)

// StatsExecutor wraps an Executor with statistics collection.
type StatsExecutor struct {
	Executor
	stats         *Stats
	slowThreshold time.Duration
	slowHook      SlowStatementHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsExecutor.
type StatsOption func(*StatsExecutor)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsExecutor) {
		s.slowThreshold = d
	}
}

// WithSlowStatementHook sets a callback function for slow statements.
func WithSlowStatementHook(hook SlowStatementHook) StatsOption {
	return func(s *StatsExecutor) {
		s.slowHook = hook
	}
}

// WithSlowStatementLog logs slow statements to the default logger.
func WithSlowStatementLog() StatsOption {
	return WithSlowStatementHook(func(_ context.Context, space, stmt string, duration time.Duration) {
		slog.Warn("slow statement detected", "duration", duration, "space", space, "stmt", stmt)
	})
}

// NewStatsExecutor wraps exec with statistics collection.
//
//	exec := dialect.NewStatsExecutor(pool,
//	    dialect.WithSlowThreshold(200*time.Millisecond),
//	    dialect.WithSlowStatementLog(),
//	)
//	m := mapper.New(exec)
//
//	// Later, check statistics:
//	fmt.Println(exec.Stats().Snapshot())
func NewStatsExecutor(exec Executor, opts ...StatsOption) *StatsExecutor {
	s := &StatsExecutor{
		Executor:      exec,
		stats:         &Stats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the underlying Stats for reading statistics.
func (d *StatsExecutor) Stats() *Stats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsExecutor) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsExecutor) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Execute runs a statement and records statistics.
func (d *StatsExecutor) Execute(ctx context.Context, space, stmt string) (*Result, error) {
	start := time.Now()
	res, err := d.Executor.Execute(ctx, space, stmt)
	d.record(ctx, space, stmt, start, err)
	return res, err
}

func (d *StatsExecutor) record(ctx context.Context, space, stmt string, start time.Time, err error) {
	duration := time.Since(start)
	d.stats.Statements.Add(1)
	d.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowStatements.Add(1)
		if hook != nil {
			hook(ctx, space, stmt, duration)
		}
	}
}

// Ensure interfaces are implemented.
var (
	_ Executor = (*StatsExecutor)(nil)
	_ Executor = (*DebugExecutor)(nil)
	_ Executor = (*Recorder)(nil)
	_ Executor = ExecutorFunc(nil)
)
