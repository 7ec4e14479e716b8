package dialect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = prometheus.ExponentialBuckets(0.0005, 2, 16) // ~0.5ms to 16s

// MetricsExecutor exports Prometheus metrics for every statement.
type MetricsExecutor struct {
	Executor
	statements *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetricsExecutor wraps exec and registers its collectors with reg.
// A nil reg uses prometheus.DefaultRegisterer. Collectors registered by an
// earlier call are reused.
func NewMetricsExecutor(exec Executor, reg prometheus.Registerer) (*MetricsExecutor, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	statements, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ocean",
		Name:      "statements_total",
		Help:      "Count of statements sent to the graph store",
	}, []string{"verb", "result"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ocean",
		Name:      "statement_duration_seconds",
		Help:      "Duration of statements sent to the graph store",
		Buckets:   durationBuckets,
	}, []string{"verb"}))
	if err != nil {
		return nil, err
	}
	return &MetricsExecutor{Executor: exec, statements: statements, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var e prometheus.AlreadyRegisteredError
		if errors.As(err, &e) {
			if existing, ok := e.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("dialect: collector already registered with a different type: %w", err)
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// Execute runs a statement and records its outcome and duration.
func (m *MetricsExecutor) Execute(ctx context.Context, space, stmt string) (*Result, error) {
	verb := Verb(stmt)
	start := time.Now()
	res, err := m.Executor.Execute(ctx, space, stmt)
	m.duration.WithLabelValues(verb).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.statements.WithLabelValues(verb, result).Inc()
	return res, err
}

// Verb returns the lower-cased leading keyword of a statement, skipping a
// leading USE clause. It keeps metric label cardinality bounded.
func Verb(stmt string) string {
	s := strings.TrimSpace(stmt)
	if len(s) > 4 && strings.EqualFold(s[:4], "use ") {
		if i := strings.IndexByte(s, ';'); i >= 0 {
			s = strings.TrimSpace(s[i+1:])
		}
	}
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		s = s[:i]
	}
	switch v := strings.ToLower(s); v {
	case "insert", "update", "upsert", "delete", "go", "fetch", "match", "lookup", "find", "get", "show":
		return v
	case "":
		return "empty"
	default:
		return "other"
	}
}
