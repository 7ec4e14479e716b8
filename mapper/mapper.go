// Package mapper turns vertex and edge entities into batched nGQL statements
// and runs them through a dialect.Executor.
//
//	m := mapper.New(exec, mapper.WithSpace("social"))
//	person, err := m.Registry().Vertex(Person{})
//	...
//	n, err := mapper.SaveVertices(ctx, m, []*entity.Vertex[string]{
//	    entity.MustVertex(person, "alice", map[string]any{"name": "Alice"}),
//	})
//
// Batches are validated as a whole before anything is sent: every invalid
// entity is reported in one *ocean.BatchError and no statement runs.
// Executor errors are returned unchanged. Policies installed with WithPolicy
// are evaluated after validation, so a denied batch also writes nothing.
package mapper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/config"
	"github.com/syssam/ocean/dialect"
	"github.com/syssam/ocean/label"
	"github.com/syssam/ocean/ngql"
	"github.com/syssam/ocean/privacy"
)

// Mapper dispatches entity batches and statements to an executor. It is safe
// for concurrent use once constructed.
type Mapper struct {
	exec        dialect.Executor
	space       string
	registry    *label.Registry
	logger      *slog.Logger
	batchSize   int
	concurrency int
	cache       ocean.Cache
	cacheTTL    time.Duration
	policies    privacy.Policies
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithSpace sets the graph space statements run in. An empty space keeps the
// executor session's current space.
func WithSpace(space string) Option {
	return func(m *Mapper) { m.space = space }
}

// WithRegistry sets the label registry used to resolve declared types.
func WithRegistry(r *label.Registry) Option {
	return func(m *Mapper) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBatchSize caps the number of rows per INSERT statement.
// Values below 1 are ignored.
func WithBatchSize(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

// WithConcurrency caps the number of statements of one batch in flight.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithCache caches query results in c for ttl. A zero ttl keeps results until
// a write to the same space invalidates them.
func WithCache(c ocean.Cache, ttl time.Duration) Option {
	return func(m *Mapper) {
		m.cache = c
		m.cacheTTL = ttl
	}
}

// WithPolicy evaluates p before every typed read and batch write, after the
// policies already set.
func WithPolicy(p privacy.Policy) Option {
	return func(m *Mapper) {
		m.policies = append(m.policies, p)
	}
}

// FromConfig applies the space, batch and concurrency settings of cfg and
// wraps the executor with statistics that log slow statements. Caches are
// built by Open.
func FromConfig(cfg *config.Config) Option {
	return func(m *Mapper) {
		if cfg == nil {
			return
		}
		WithSpace(cfg.Space)(m)
		WithBatchSize(cfg.BatchSize)(m)
		WithConcurrency(cfg.Concurrency)(m)
		m.exec = dialect.NewStatsExecutor(m.exec,
			dialect.WithSlowThreshold(cfg.SlowThreshold.Std()),
			dialect.WithSlowStatementHook(func(ctx context.Context, space, stmt string, d time.Duration) {
				m.logger.WarnContext(ctx, "slow statement detected", "duration", d, "space", space, "stmt", stmt)
			}),
		)
	}
}

// New returns a Mapper running statements through exec.
func New(exec dialect.Executor, opts ...Option) *Mapper {
	m := &Mapper{
		exec:        exec,
		logger:      slog.Default(),
		batchSize:   config.DefaultBatchSize,
		concurrency: config.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = label.NewRegistry()
	}
	return m
}

// Space returns the default graph space.
func (m *Mapper) Space() string { return m.space }

// Registry returns the label registry.
func (m *Mapper) Registry() *label.Registry { return m.registry }

// Executor returns the executor statements are sent to, including any
// wrapper installed by FromConfig.
func (m *Mapper) Executor() dialect.Executor { return m.exec }

// Close releases the cache when it holds resources.
func (m *Mapper) Close() error {
	if c, ok := m.cache.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ExecuteUpdate runs a write statement in the default space.
func (m *Mapper) ExecuteUpdate(ctx context.Context, stmt string) (*dialect.Result, error) {
	return m.ExecuteUpdateIn(ctx, m.space, stmt)
}

// ExecuteUpdateIn runs a write statement in space. Cached query results of
// space are dropped once the statement succeeds.
func (m *Mapper) ExecuteUpdateIn(ctx context.Context, space, stmt string) (*dialect.Result, error) {
	res, err := m.execute(ctx, space, stmt)
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx, space)
	return res, nil
}

// ExecuteBatchUpdate runs stmts in space as one request, separated by
// semicolons. An empty list runs nothing.
func (m *Mapper) ExecuteBatchUpdate(ctx context.Context, space string, stmts []string) (*dialect.Result, error) {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return &dialect.Result{}, nil
	}
	return m.ExecuteUpdateIn(ctx, space, strings.Join(parts, "; "))
}

// ExecuteQuery runs a read statement in the default space.
func (m *Mapper) ExecuteQuery(ctx context.Context, stmt string) (*dialect.Result, error) {
	return m.ExecuteQueryIn(ctx, m.space, stmt)
}

// ExecuteQueryIn runs a read statement in space. With a cache configured,
// results are served from and stored into it; cache failures are logged and
// never fail the query.
func (m *Mapper) ExecuteQueryIn(ctx context.Context, space, stmt string) (*dialect.Result, error) {
	if m.cache == nil {
		return m.execute(ctx, space, stmt)
	}
	key := ocean.CacheKey{Space: space, Statement: stmt}.String()
	if res, ok := m.cached(ctx, key); ok {
		return res, nil
	}
	res, err := m.execute(ctx, space, stmt)
	if err != nil {
		return nil, err
	}
	m.store(ctx, key, res)
	return res, nil
}

// execute runs stmt and never returns a nil result without an error.
func (m *Mapper) execute(ctx context.Context, space, stmt string) (*dialect.Result, error) {
	res, err := m.exec.Execute(ctx, space, stmt)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &dialect.Result{}
	}
	return res, nil
}

// Query renders q and runs it in the default space.
func (m *Mapper) Query(ctx context.Context, q ngql.Query) (*dialect.Result, error) {
	if q == nil {
		return nil, errors.New("ocean: nil query")
	}
	return m.ExecuteQuery(ctx, q.String())
}

func (m *Mapper) cached(ctx context.Context, key string) (*dialect.Result, bool) {
	b, err := m.cache.Get(ctx, key)
	if err != nil {
		m.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return nil, false
	}
	if b == nil {
		return nil, false
	}
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	var res dialect.Result
	if err := dec.Decode(&res); err != nil {
		m.logger.WarnContext(ctx, "cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &res, true
}

func (m *Mapper) store(ctx context.Context, key string, res *dialect.Result) {
	b, err := msgpack.Marshal(res)
	if err != nil {
		m.logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := m.cache.Set(ctx, key, b, m.cacheTTL); err != nil {
		m.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

func (m *Mapper) invalidate(ctx context.Context, space string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.DeletePrefix(ctx, ocean.SpacePrefix(space)); err != nil {
		m.logger.WarnContext(ctx, "cache invalidation failed", "space", space, "error", err)
	}
}

// statement is a rendered write and the entity rows it carries.
type statement struct {
	text   string
	rows   int
	schema *label.Schema
	props  []map[string]any
}

// authorizeWrite evaluates the write policies on every statement of op.
func (m *Mapper) authorizeWrite(ctx context.Context, op string, stmts []statement) error {
	if len(m.policies) == 0 {
		return nil
	}
	for _, st := range stmts {
		w := privacy.Write{Op: op, Space: m.space, Label: st.schema.Label(), Kind: st.schema.Kind(), Rows: st.props}
		if err := m.policies.EvalWrite(ctx, w); err != nil {
			m.logger.WarnContext(ctx, "write denied", "op", op, "label", w.Label, "rows", st.rows, "error", err)
			return err
		}
	}
	return nil
}

// authorizeRead evaluates the read policies on a read of s.
func (m *Mapper) authorizeRead(ctx context.Context, op string, s *label.Schema) error {
	if len(m.policies) == 0 {
		return nil
	}
	r := privacy.Read{Op: op, Space: m.space, Label: s.Label(), Kind: s.Kind()}
	if err := m.policies.EvalRead(ctx, r); err != nil {
		m.logger.WarnContext(ctx, "read denied", "op", op, "label", r.Label, "error", err)
		return err
	}
	return nil
}

// dispatch runs stmts with at most m.concurrency in flight and returns the
// number of rows carried by the statements that succeeded. The first
// executor error cancels the statements not yet started and is returned
// unchanged.
func (m *Mapper) dispatch(ctx context.Context, op string, stmts []statement) (int, error) {
	if len(stmts) == 0 {
		return 0, nil
	}
	var rows atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for _, st := range stmts {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if _, err := m.exec.Execute(ctx, m.space, st.text); err != nil {
				return err
			}
			rows.Add(int64(st.rows))
			return nil
		})
	}
	err := eg.Wait()
	// Statements may have been applied even when a later one failed.
	m.invalidate(context.WithoutCancel(ctx), m.space)
	n := int(rows.Load())
	if err != nil {
		m.logger.ErrorContext(ctx, "batch failed", "op", op, "statements", len(stmts), "rows", n, "error", err)
		return n, err
	}
	m.logger.DebugContext(ctx, "batch dispatched", "op", op, "statements", len(stmts), "rows", n)
	return n, nil
}
