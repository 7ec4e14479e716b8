package dataloader_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/contrib/dataloader"
	"github.com/syssam/ocean/dialect"
	"github.com/syssam/ocean/mapper"
	"github.com/syssam/ocean/ngql"
	"github.com/syssam/ocean/schema/field"
)

type user struct{ ocean.Schema }

func (user) Config() ocean.Config {
	return ocean.Config{Label: "user"}
}

func (user) Fields() []ocean.Field {
	return []ocean.Field{field.String("name")}
}

type knows struct{ ocean.Schema }

func (knows) Config() ocean.Config {
	return ocean.Config{Label: "knows", Kind: ocean.KindEdge, Src: user{}, Dst: user{}}
}

func (knows) Fields() []ocean.Field {
	return []ocean.Field{field.Int("since")}
}

func newMapper(t *testing.T, respond dialect.ExecutorFunc) (*mapper.Mapper, *dialect.Recorder) {
	t.Helper()
	rec := dialect.NewRecorder(respond)
	return mapper.New(rec, mapper.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))), rec
}

func TestVertices(t *testing.T) {
	t.Parallel()

	m, rec := newMapper(t, func(context.Context, string, string) (*dialect.Result, error) {
		return &dialect.Result{Rows: []dialect.Row{
			{ngql.ColumnVID: "b", "name": "Bea"},
			{ngql.ColumnVID: "a", "name": "Ann"},
		}}, nil
	})
	load := dataloader.Vertices[string](m, user{})

	vs, errs := load(context.Background(), []string{"a", "x", "b", "a"})
	require.Len(t, vs, 4)
	require.Len(t, errs, 4)
	assert.Equal(t, "a", vs[0].ID())
	assert.Nil(t, vs[1])
	assert.ErrorIs(t, errs[1], dataloader.ErrNotFound)
	assert.Equal(t, "b", vs[2].ID())
	assert.Same(t, vs[0], vs[3])
	assert.NoError(t, errs[0])
	assert.Len(t, rec.Statements(), 1)
}

func TestVerticesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	m, _ := newMapper(t, func(context.Context, string, string) (*dialect.Result, error) {
		return nil, boom
	})
	vs, errs := dataloader.Vertices[string](m, user{})(context.Background(), []string{"a"})
	assert.Nil(t, vs)
	require.Len(t, errs, 1)
	assert.Same(t, boom, errs[0])
}

func TestEdges(t *testing.T) {
	t.Parallel()

	m, rec := newMapper(t, func(_ context.Context, _, stmt string) (*dialect.Result, error) {
		if strings.Contains(stmt, "REVERSELY") {
			return &dialect.Result{Rows: []dialect.Row{
				{ngql.ColumnSrc: "a", ngql.ColumnDst: "c", "since": int64(2020)},
			}}, nil
		}
		return &dialect.Result{Rows: []dialect.Row{
			{ngql.ColumnSrc: "a", ngql.ColumnDst: "b", "since": int64(2019)},
			{ngql.ColumnSrc: "c", ngql.ColumnDst: "b", "since": int64(2021)},
			{ngql.ColumnSrc: "a", ngql.ColumnDst: "c", "since": int64(2020)},
		}}, nil
	})
	ctx := context.Background()

	groups, errs := dataloader.OutEdges[string, string](m, knows{})(ctx, []string{"a", "z", "c"})
	assert.Nil(t, errs)
	require.Len(t, groups, 3)
	require.Len(t, groups[0], 2)
	assert.Equal(t, "b", groups[0][0].Dst())
	assert.Equal(t, "c", groups[0][1].Dst())
	assert.Empty(t, groups[1])
	require.Len(t, groups[2], 1)

	groups, errs = dataloader.InEdges[string, string](m, knows{})(ctx, []string{"c"})
	assert.Nil(t, errs)
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 1)
	assert.Equal(t, "a", groups[0][0].Src())
	assert.Len(t, rec.Statements(), 2)
}

type item struct {
	ID    int
	Owner string
}

func TestOrderByKeys(t *testing.T) {
	t.Parallel()

	keyFn := func(i item) int { return i.ID }
	values := []item{{ID: 3}, {ID: 1}}

	ordered, errs := dataloader.OrderByKeys([]int{1, 3}, values, keyFn)
	assert.Equal(t, []item{{ID: 1}, {ID: 3}}, ordered)
	assert.Nil(t, errs)

	ordered, errs = dataloader.OrderByKeys([]int{2, 3}, values, keyFn)
	assert.Equal(t, []item{{}, {ID: 3}}, ordered)
	assert.Equal(t, []error{dataloader.ErrNotFound, nil}, errs)

	ordered, errs = dataloader.OrderByKeys([]int{}, values, keyFn)
	assert.Empty(t, ordered)
	assert.Nil(t, errs)
}

func TestGroupByKey(t *testing.T) {
	t.Parallel()

	values := []item{{1, "a"}, {2, "b"}, {3, "a"}}
	groups := dataloader.GroupByKey(values, func(i item) string { return i.Owner })
	assert.Equal(t, []item{{1, "a"}, {3, "a"}}, groups["a"])

	ordered := dataloader.OrderGroupsByKeys([]string{"b", "c", "a"}, groups)
	assert.Equal(t, [][]item{{{2, "b"}}, nil, {{1, "a"}, {3, "a"}}}, ordered)
}

func TestLoadersContext(t *testing.T) {
	t.Parallel()

	type loaders struct{ name string }
	ctx := dataloader.WithLoaders(context.Background(), &loaders{name: "req"})
	assert.Equal(t, "req", dataloader.For[*loaders](ctx).name)
	assert.Nil(t, dataloader.For[*loaders](context.Background()))
}
