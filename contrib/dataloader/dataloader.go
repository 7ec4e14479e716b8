// Package dataloader adapts mapper reads to DataLoader batch functions.
//
// A DataLoader collects the keys requested while serving one request and
// loads them with a single batch call. The batch functions built here run one
// FETCH or GO statement per batch and return results in key order, as
// loaders such as github.com/graph-gophers/dataloader/v7 require:
//
//	people := dataloader.Vertices[string](m, Person{})
//	vs, errs := people(ctx, []string{"alice", "bob"})
//
// Loaders are usually request scoped and travel in the context:
//
//	ctx = dataloader.WithLoaders(ctx, &Loaders{People: people})
//	loaders := dataloader.For[*Loaders](ctx)
package dataloader

import (
	"context"
	"errors"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/entity"
	"github.com/syssam/ocean/mapper"
)

// ErrNotFound is reported for keys with no vertex in a batch result.
var ErrNotFound = errors.New("dataloader: vertex not found")

// KeyFunc extracts the key of a value.
type KeyFunc[K comparable, V any] func(V) K

// BatchFunc loads the values of keys. Results and errors are either aligned
// with keys, or errors holds a single error for the whole batch.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, []error)

// Vertices returns a batch function fetching vertices of the vertex type decl.
// Keys without a vertex get a nil value and ErrNotFound.
func Vertices[ID comparable](m *mapper.Mapper, decl ocean.Interface) BatchFunc[ID, *entity.Vertex[ID]] {
	return func(ctx context.Context, ids []ID) ([]*entity.Vertex[ID], []error) {
		vs, err := mapper.FetchVertexTag(ctx, m, decl, ids...)
		if err != nil {
			return nil, []error{err}
		}
		return OrderByKeys(ids, vs, (*entity.Vertex[ID]).ID)
	}
}

// OutEdges returns a batch function loading the edges of the edge type decl
// leaving each source key. Keys without edges get an empty group.
func OutEdges[S, D comparable](m *mapper.Mapper, decl ocean.Interface) BatchFunc[S, []*entity.Edge[S, D]] {
	return func(ctx context.Context, ids []S) ([][]*entity.Edge[S, D], []error) {
		es, err := mapper.GoOutEdges[S, D](ctx, m, decl, ids...)
		if err != nil {
			return nil, []error{err}
		}
		return OrderGroupsByKeys(ids, GroupByKey(es, (*entity.Edge[S, D]).Src)), nil
	}
}

// InEdges returns a batch function loading the edges of the edge type decl
// arriving at each destination key. Edges keep their stored orientation.
func InEdges[S, D comparable](m *mapper.Mapper, decl ocean.Interface) BatchFunc[D, []*entity.Edge[S, D]] {
	return func(ctx context.Context, ids []D) ([][]*entity.Edge[S, D], []error) {
		es, err := mapper.GoReverseEdges[S, D](ctx, m, decl, ids...)
		if err != nil {
			return nil, []error{err}
		}
		return OrderGroupsByKeys(ids, GroupByKey(es, (*entity.Edge[S, D]).Dst)), nil
	}
}

// OrderByKeys aligns values with keys. Missing keys get the zero value and
// ErrNotFound; the error slice is nil when every key is found.
func OrderByKeys[K comparable, V any](keys []K, values []V, keyFn KeyFunc[K, V]) ([]V, []error) {
	lookup := make(map[K]V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]V, len(keys))
	var errs []error
	for i, key := range keys {
		v, ok := lookup[key]
		if !ok {
			if errs == nil {
				errs = make([]error, len(keys))
			}
			errs[i] = ErrNotFound
			continue
		}
		result[i] = v
	}
	return result, errs
}

// GroupByKey groups values sharing a key, keeping their order.
func GroupByKey[K comparable, V any](values []V, keyFn KeyFunc[K, V]) map[K][]V {
	groups := make(map[K][]V)
	for _, v := range values {
		k := keyFn(v)
		groups[k] = append(groups[k], v)
	}
	return groups
}

// OrderGroupsByKeys aligns groups with keys.
func OrderGroupsByKeys[K comparable, V any](keys []K, groups map[K][]V) [][]V {
	result := make([][]V, len(keys))
	for i, key := range keys {
		result[i] = groups[key]
	}
	return result
}

type ctxKey struct{}

// WithLoaders returns a context carrying loaders.
func WithLoaders[T any](ctx context.Context, loaders T) context.Context {
	return context.WithValue(ctx, ctxKey{}, loaders)
}

// For returns the loaders of ctx, or the zero value of T.
func For[T any](ctx context.Context) T {
	v, _ := ctx.Value(ctxKey{}).(T)
	return v
}
