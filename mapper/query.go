package mapper

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/uuid"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/dialect"
	"github.com/syssam/ocean/entity"
	"github.com/syssam/ocean/label"
	"github.com/syssam/ocean/ngql"
)

// Read operation names used in policies and logs.
const (
	OpQueryVertices  = "query vertices"
	OpFetchVertexTag = "fetch vertex tag"
	OpGoOutEdges     = "go out edges"
	OpGoReverseEdges = "go reverse edges"
)

// QueryVertices runs q and decodes each row into a vertex of the vertex type
// decl. Rows carry the identifier in the ngql.ColumnVID column; columns
// naming stored properties fill the property bag.
func QueryVertices[ID comparable](ctx context.Context, m *Mapper, decl ocean.Interface, q ngql.Query) ([]*entity.Vertex[ID], error) {
	s, err := m.registry.Vertex(decl)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeRead(ctx, OpQueryVertices, s); err != nil {
		return nil, err
	}
	res, err := m.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeVertices[ID](s, res)
}

// FetchVertexTag fetches the vertices of the vertex type decl with the given
// identifiers. Results follow the order of ids; identifiers the store does
// not know are skipped. Repeated identifiers are fetched once.
func FetchVertexTag[ID comparable](ctx context.Context, m *Mapper, decl ocean.Interface, ids ...ID) ([]*entity.Vertex[ID], error) {
	s, err := m.registry.Vertex(decl)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeRead(ctx, OpFetchVertexTag, s); err != nil {
		return nil, err
	}
	ids = uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	encoded := make([]string, len(ids))
	for i, id := range ids {
		if encoded[i], err = s.EncodeID(id); err != nil {
			return nil, err
		}
	}
	res, err := m.Query(ctx, ngql.Fetch(s.Label()).IDs(encoded...).YieldVertex(s.Properties()...))
	if err != nil {
		return nil, err
	}
	vs, err := decodeVertices[ID](s, res)
	if err != nil {
		return nil, err
	}
	byID := make(map[ID]*entity.Vertex[ID], len(vs))
	for _, v := range vs {
		byID[v.ID()] = v
	}
	out := make([]*entity.Vertex[ID], 0, len(vs))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// GoOutEdges returns the edges of the edge type decl leaving the given source
// vertices.
func GoOutEdges[S, D comparable](ctx context.Context, m *Mapper, decl ocean.Interface, ids ...S) ([]*entity.Edge[S, D], error) {
	s, err := m.registry.Edge(decl)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeRead(ctx, OpGoOutEdges, s); err != nil {
		return nil, err
	}
	ids = uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	from := make([]string, len(ids))
	for i, id := range ids {
		if from[i], err = s.EncodeSrcID(id); err != nil {
			return nil, err
		}
	}
	res, err := m.Query(ctx, ngql.Go().From(from...).Over(s.Label()).YieldEdge(s.Properties()...))
	if err != nil {
		return nil, err
	}
	es := make([]*entity.Edge[S, D], 0, res.Len())
	for _, row := range res.Rows {
		e, err := decodeEdge[S, D](s, row, row[ngql.ColumnSrc], row[ngql.ColumnDst])
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, nil
}

// GoReverseEdges returns the edges of the edge type decl entering the given
// destination vertices. Edges keep their stored direction: Src is the
// vertex the edge leaves and Dst one of ids.
func GoReverseEdges[S, D comparable](ctx context.Context, m *Mapper, decl ocean.Interface, ids ...D) ([]*entity.Edge[S, D], error) {
	s, err := m.registry.Edge(decl)
	if err != nil {
		return nil, err
	}
	if err := m.authorizeRead(ctx, OpGoReverseEdges, s); err != nil {
		return nil, err
	}
	ids = uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	from := make([]string, len(ids))
	for i, id := range ids {
		if from[i], err = s.EncodeDstID(id); err != nil {
			return nil, err
		}
	}
	res, err := m.Query(ctx, ngql.Go().From(from...).Over(s.Label()).Reversely().YieldEdge(s.Properties()...))
	if err != nil {
		return nil, err
	}
	es := make([]*entity.Edge[S, D], 0, res.Len())
	for _, row := range res.Rows {
		// A reverse traversal yields _src as the start vertex, which is the
		// stored destination.
		e, err := decodeEdge[S, D](s, row, row[ngql.ColumnDst], row[ngql.ColumnSrc])
		if err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, nil
}

func decodeVertices[ID comparable](s *label.Schema, res *dialect.Result) ([]*entity.Vertex[ID], error) {
	vs := make([]*entity.Vertex[ID], 0, res.Len())
	for i, row := range res.Rows {
		raw, ok := row[ngql.ColumnVID]
		if !ok {
			return nil, fmt.Errorf("ocean: decode %s row %d: missing %q column", s.Label(), i, ngql.ColumnVID)
		}
		id, err := convertID[ID](raw)
		if err != nil {
			return nil, fmt.Errorf("ocean: decode %s row %d: %w", s.Label(), i, err)
		}
		v, err := entity.NewVertex(s, id, rowProperties(s, row))
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func decodeEdge[S, D comparable](s *label.Schema, row dialect.Row, rawSrc, rawDst any) (*entity.Edge[S, D], error) {
	src, err := convertID[S](rawSrc)
	if err != nil {
		return nil, fmt.Errorf("ocean: decode %s source: %w", s.Label(), err)
	}
	dst, err := convertID[D](rawDst)
	if err != nil {
		return nil, fmt.Errorf("ocean: decode %s destination: %w", s.Label(), err)
	}
	return entity.NewEdge(s, src, dst, rowProperties(s, row))
}

func rowProperties(s *label.Schema, row dialect.Row) map[string]any {
	props := make(map[string]any)
	for _, p := range s.Properties() {
		if v, ok := row[p]; ok {
			props[p] = v
		}
	}
	return props
}

func uniq[T comparable](ids []T) []T {
	seen := make(map[T]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// convertID converts an identifier decoded from a result row to T. Integer
// widths are converted when the value fits; strings parse into integers and
// UUIDs. Anything else is an *ocean.IncompatibleIdentifierTypeError.
func convertID[T comparable](v any) (T, error) {
	var zero T
	if id, ok := v.(T); ok {
		return id, nil
	}
	incompatible := &ocean.IncompatibleIdentifierTypeError{
		Left:  reflect.TypeOf(&zero).Elem().String(),
		Right: fmt.Sprintf("%T", v),
	}
	if v == nil {
		return zero, incompatible
	}
	out := reflect.New(reflect.TypeOf(&zero).Elem()).Elem()
	src := reflect.ValueOf(v)
	switch {
	case out.Type() == uuidType:
		s, ok := v.(string)
		if !ok {
			return zero, incompatible
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return zero, incompatible
		}
		out.Set(reflect.ValueOf(id))
	case out.Kind() == reflect.String:
		switch src.Kind() {
		case reflect.String:
			out.SetString(src.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out.SetString(strconv.FormatInt(src.Int(), 10))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out.SetString(strconv.FormatUint(src.Uint(), 10))
		default:
			return zero, incompatible
		}
	case out.CanInt():
		var n int64
		switch {
		case src.CanInt():
			n = src.Int()
		case src.CanUint():
			u := src.Uint()
			if u > 1<<63-1 {
				return zero, incompatible
			}
			n = int64(u)
		case src.Kind() == reflect.String:
			p, err := strconv.ParseInt(src.String(), 10, 64)
			if err != nil {
				return zero, incompatible
			}
			n = p
		default:
			return zero, incompatible
		}
		if out.OverflowInt(n) {
			return zero, incompatible
		}
		out.SetInt(n)
	case out.CanUint():
		var u uint64
		switch {
		case src.CanInt():
			if src.Int() < 0 {
				return zero, incompatible
			}
			u = uint64(src.Int())
		case src.CanUint():
			u = src.Uint()
		case src.Kind() == reflect.String:
			p, err := strconv.ParseUint(src.String(), 10, 64)
			if err != nil {
				return zero, incompatible
			}
			u = p
		default:
			return zero, incompatible
		}
		if out.OverflowUint(u) {
			return zero, incompatible
		}
		out.SetUint(u)
	default:
		return zero, incompatible
	}
	return out.Interface().(T), nil
}
