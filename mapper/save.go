package mapper

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/ocean"
	"github.com/syssam/ocean/entity"
	"github.com/syssam/ocean/label"
	"github.com/syssam/ocean/ngql"
)

// Batch operation names used in errors and logs.
const (
	OpSaveVertices          = "save vertices"
	OpSaveEdges             = "save edges"
	OpSaveEdgesWithVertices = "save edges with vertices"
)

// SaveVertices writes vs as INSERT VERTEX statements of at most the batch
// size rows each, one statement group per schema. Vertices with the same
// identity are written once, with the properties of the last one. It returns
// the number of vertices written.
func SaveVertices[ID comparable](ctx context.Context, m *Mapper, vs []*entity.Vertex[ID]) (int, error) {
	stmts, errs := prepareVertices(m, vs)
	if len(errs) > 0 {
		return 0, &ocean.BatchError{Op: OpSaveVertices, Errors: errs}
	}
	if err := m.authorizeWrite(ctx, OpSaveVertices, stmts); err != nil {
		return 0, err
	}
	return m.dispatch(ctx, OpSaveVertices, stmts)
}

// SaveEdges writes es as INSERT EDGE statements of at most the batch size
// rows each, one statement group per schema. It returns the number of edges
// written.
func SaveEdges[S, D comparable](ctx context.Context, m *Mapper, es []*entity.Edge[S, D]) (int, error) {
	stmts, errs := prepareEdges(m, es)
	if len(errs) > 0 {
		return 0, &ocean.BatchError{Op: OpSaveEdges, Errors: errs}
	}
	if err := m.authorizeWrite(ctx, OpSaveEdges, stmts); err != nil {
		return 0, err
	}
	return m.dispatch(ctx, OpSaveEdges, stmts)
}

// SaveEdgesWithVertices writes the endpoint vertices of es, built from their
// identifiers by srcFn and dstFn, then the edges. Each distinct identifier is
// passed to its constructor once. The whole batch is validated before any
// statement runs. It returns the number of vertices and edges written.
func SaveEdgesWithVertices[S, D comparable](
	ctx context.Context,
	m *Mapper,
	es []*entity.Edge[S, D],
	srcFn func(S) (*entity.Vertex[S], error),
	dstFn func(D) (*entity.Vertex[D], error),
) (int, error) {
	if srcFn == nil || dstFn == nil {
		return 0, errors.New("ocean: save edges with vertices: nil vertex constructor")
	}
	var (
		errs     []error
		srcIDs   []S
		dstIDs   []D
		seenSrc  = make(map[S]struct{})
		seenDst  = make(map[D]struct{})
		srcVerts []*entity.Vertex[S]
		dstVerts []*entity.Vertex[D]
	)
	for _, e := range es {
		if e == nil {
			continue
		}
		if _, ok := seenSrc[e.Src()]; !ok {
			seenSrc[e.Src()] = struct{}{}
			srcIDs = append(srcIDs, e.Src())
		}
		if _, ok := seenDst[e.Dst()]; !ok {
			seenDst[e.Dst()] = struct{}{}
			dstIDs = append(dstIDs, e.Dst())
		}
	}
	srcVerts, errs = constructVertices(srcIDs, srcFn, "source", errs)
	dstVerts, errs = constructVertices(dstIDs, dstFn, "destination", errs)

	srcStmts, srcErrs := prepareVertices(m, srcVerts)
	dstStmts, dstErrs := prepareVertices(m, dstVerts)
	edgeStmts, edgeErrs := prepareEdges(m, es)
	errs = slices.Concat(errs, srcErrs, dstErrs, edgeErrs)
	if len(errs) > 0 {
		return 0, &ocean.BatchError{Op: OpSaveEdgesWithVertices, Errors: errs}
	}
	vertStmts := slices.Concat(srcStmts, dstStmts)
	if err := m.authorizeWrite(ctx, OpSaveVertices, vertStmts); err != nil {
		return 0, err
	}
	if err := m.authorizeWrite(ctx, OpSaveEdges, edgeStmts); err != nil {
		return 0, err
	}
	n, err := m.dispatch(ctx, OpSaveVertices, vertStmts)
	if err != nil {
		return n, err
	}
	ne, err := m.dispatch(ctx, OpSaveEdges, edgeStmts)
	return n + ne, err
}

func constructVertices[ID comparable](ids []ID, fn func(ID) (*entity.Vertex[ID], error), end string, errs []error) ([]*entity.Vertex[ID], []error) {
	vs := make([]*entity.Vertex[ID], 0, len(ids))
	for _, id := range ids {
		v, err := fn(id)
		switch {
		case err != nil:
			errs = append(errs, &ocean.InvalidEntityError{Reason: fmt.Sprintf("%s vertex %v", end, id), Cause: err})
		case v == nil:
			errs = append(errs, ocean.NewInvalidEntityError("", fmt.Sprintf("%s vertex %v: constructor returned nil", end, id)))
		default:
			vs = append(vs, v)
		}
	}
	return vs, errs
}

type vertexRow struct {
	id    string
	vals  []any
	props map[string]any
}

type edgeRow struct {
	src, dst string
	vals     []any
	props    map[string]any
}

// prepareVertices validates every vertex and renders the statements of the
// valid ones. Statements are only meaningful when no error is returned.
func prepareVertices[ID comparable](m *Mapper, vs []*entity.Vertex[ID]) ([]statement, []error) {
	var errs []error
	groups := make(map[*label.Schema][]*entity.Vertex[ID])
	var order []*label.Schema
	for i, v := range vs {
		if v == nil {
			errs = append(errs, ocean.NewInvalidEntityError("", fmt.Sprintf("nil vertex at index %d", i)))
			continue
		}
		s := v.Schema()
		if _, ok := groups[s]; !ok {
			order = append(order, s)
		}
		groups[s] = append(groups[s], v)
	}
	var stmts []statement
	for _, s := range order {
		var rows []vertexRow
		for _, v := range entity.DedupeVertices(groups[s]) {
			id, err := v.EncodeID()
			if err != nil {
				errs = append(errs, &ocean.InvalidEntityError{Label: s.Label(), Reason: fmt.Sprintf("vertex %v: encode id", v.ID()), Cause: err})
				continue
			}
			var fill map[string]any
			if p := s.IDProperty(); p != "" {
				fill = map[string]any{p: v.ID()}
			}
			props := v.Properties()
			vals, err := formatRow(s, fmt.Sprint(v.ID()), props, fill)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			rows = append(rows, vertexRow{id: id, vals: vals, props: filled(props, fill)})
		}
		if len(errs) > 0 {
			continue
		}
		props := s.Properties()
		for chunk := range slices.Chunk(rows, m.batchSize) {
			b := ngql.InsertVertex(s.Label(), props...)
			bags := make([]map[string]any, 0, len(chunk))
			for _, r := range chunk {
				b.Values(r.id, r.vals...)
				bags = append(bags, r.props)
			}
			stmts = append(stmts, statement{text: b.String(), rows: b.Len(), schema: s, props: bags})
		}
	}
	return stmts, errs
}

// prepareEdges validates every edge and renders the statements of the valid
// ones. Statements are only meaningful when no error is returned.
func prepareEdges[S, D comparable](m *Mapper, es []*entity.Edge[S, D]) ([]statement, []error) {
	var errs []error
	groups := make(map[*label.Schema][]*entity.Edge[S, D])
	var order []*label.Schema
	for i, e := range es {
		if e == nil {
			errs = append(errs, ocean.NewInvalidEntityError("", fmt.Sprintf("nil edge at index %d", i)))
			continue
		}
		s := e.Schema()
		if _, ok := groups[s]; !ok {
			order = append(order, s)
		}
		groups[s] = append(groups[s], e)
	}
	var stmts []statement
	for _, s := range order {
		var rows []edgeRow
		for _, e := range entity.DedupeEdges(groups[s]) {
			ident := fmt.Sprintf("%v->%v", e.Src(), e.Dst())
			src, err := e.EncodeSrcID()
			if err != nil {
				errs = append(errs, &ocean.InvalidEntityError{Label: s.Label(), Reason: "edge " + ident + ": encode source id", Cause: err})
				continue
			}
			dst, err := e.EncodeDstID()
			if err != nil {
				errs = append(errs, &ocean.InvalidEntityError{Label: s.Label(), Reason: "edge " + ident + ": encode destination id", Cause: err})
				continue
			}
			fill := make(map[string]any, 2)
			if p := s.SrcProperty(); p != "" {
				fill[p] = e.Src()
			}
			if p := s.DstProperty(); p != "" {
				fill[p] = e.Dst()
			}
			props := e.Properties()
			vals, err := formatRow(s, ident, props, fill)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			rows = append(rows, edgeRow{src: src, dst: dst, vals: vals, props: filled(props, fill)})
		}
		if len(errs) > 0 {
			continue
		}
		props := s.Properties()
		for chunk := range slices.Chunk(rows, m.batchSize) {
			b := ngql.InsertEdge(s.Label(), props...)
			bags := make([]map[string]any, 0, len(chunk))
			for _, r := range chunk {
				b.Values(r.src, r.dst, r.vals...)
				bags = append(bags, r.props)
			}
			stmts = append(stmts, statement{text: b.String(), rows: b.Len(), schema: s, props: bags})
		}
	}
	return stmts, errs
}

// filled returns props with the unset identity properties of fill set.
func filled(props, fill map[string]any) map[string]any {
	out := maps.Clone(props)
	if out == nil {
		out = make(map[string]any, len(fill))
	}
	for p, v := range fill {
		if out[p] == nil {
			out[p] = v
		}
	}
	return out
}

// formatRow returns the formatted values of the stored properties of s in
// property order. Unset properties take their identity fill, then their
// declared default; properties still unset render as NULL unless required.
// All missing required properties are reported in one error.
func formatRow(s *label.Schema, ident string, props, fill map[string]any) ([]any, error) {
	properties := s.Properties()
	vals := make([]any, len(properties))
	var missing []string
	for i, p := range properties {
		v := props[p]
		if v == nil {
			if fv, ok := fill[p]; ok {
				v = fv
			} else if fn, ok := s.Default(p); ok {
				v = fn()
			}
		}
		if v == nil {
			if s.IsRequired(p) {
				missing = append(missing, p)
			}
			continue
		}
		fv, err := s.FormatValue(p, v)
		if err != nil {
			return nil, &ocean.InvalidEntityError{
				Label:  s.Label(),
				Reason: fmt.Sprintf("%s: format property %q", ident, p),
				Cause:  err,
			}
		}
		vals[i] = fv
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &ocean.MissingRequiredPropertyError{Label: s.Label(), ID: ident, Properties: missing}
	}
	return vals, nil
}
