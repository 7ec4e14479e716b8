package ngql

import (
	"strconv"
	"strings"
)

// Query is implemented by every statement builder.
type Query interface {
	String() string
}

// Result column names produced by the traversal and fetch builders.
const (
	ColumnVID = "vid"
	ColumnSrc = "src"
	ColumnDst = "dst"
)

// Use prefixes stmt with a space switch. An empty space returns stmt unchanged.
func Use(space, stmt string) string {
	if space == "" {
		return stmt
	}
	return "USE " + space + "; " + stmt
}

// InsertVertexBuilder renders an INSERT VERTEX statement.
type InsertVertexBuilder struct {
	tag   string
	props []string
	rows  []string
}

// InsertVertex starts an INSERT VERTEX statement for the given tag and property list.
func InsertVertex(tag string, props ...string) *InsertVertexBuilder {
	return &InsertVertexBuilder{tag: tag, props: props}
}

// Values appends a row. id must already be encoded for the tag's key policy.
// vals are rendered with Literal and must follow the property list order.
func (b *InsertVertexBuilder) Values(id string, vals ...any) *InsertVertexBuilder {
	b.rows = append(b.rows, id+":("+Literals(vals...)+")")
	return b
}

// Len returns the number of rows added so far.
func (b *InsertVertexBuilder) Len() int { return len(b.rows) }

// String implements Query.
func (b *InsertVertexBuilder) String() string {
	var sb strings.Builder
	sb.WriteString("INSERT VERTEX ")
	sb.WriteString(b.tag)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(b.props, ","))
	sb.WriteString(") VALUES ")
	sb.WriteString(strings.Join(b.rows, ", "))
	return sb.String()
}

// InsertEdgeBuilder renders an INSERT EDGE statement.
type InsertEdgeBuilder struct {
	edge  string
	props []string
	rows  []string
}

// InsertEdge starts an INSERT EDGE statement for the given edge type and property list.
func InsertEdge(edge string, props ...string) *InsertEdgeBuilder {
	return &InsertEdgeBuilder{edge: edge, props: props}
}

// Values appends a row. src and dst must already be encoded.
func (b *InsertEdgeBuilder) Values(src, dst string, vals ...any) *InsertEdgeBuilder {
	b.rows = append(b.rows, src+"->"+dst+":("+Literals(vals...)+")")
	return b
}

// Len returns the number of rows added so far.
func (b *InsertEdgeBuilder) Len() int { return len(b.rows) }

// String implements Query.
func (b *InsertEdgeBuilder) String() string {
	var sb strings.Builder
	sb.WriteString("INSERT EDGE ")
	sb.WriteString(b.edge)
	sb.WriteByte('(')
	sb.WriteString(strings.Join(b.props, ","))
	sb.WriteString(") VALUES ")
	sb.WriteString(strings.Join(b.rows, ", "))
	return sb.String()
}

// GoBuilder renders a GO traversal.
type GoBuilder struct {
	steps     int
	from      []string
	over      string
	reversely bool
	where     string
	yield     []string
	limit     int
}

// Go starts a GO traversal.
func Go() *GoBuilder {
	return &GoBuilder{}
}

// Steps sets the number of hops. Values below 2 render a single-step traversal.
func (b *GoBuilder) Steps(n int) *GoBuilder {
	b.steps = n
	return b
}

// From sets the encoded start vertex ids.
func (b *GoBuilder) From(ids ...string) *GoBuilder {
	b.from = append(b.from, ids...)
	return b
}

// Over sets the traversed edge type.
func (b *GoBuilder) Over(edge string) *GoBuilder {
	b.over = edge
	return b
}

// Reversely traverses incoming edges.
func (b *GoBuilder) Reversely() *GoBuilder {
	b.reversely = true
	return b
}

// Where sets a filter expression.
func (b *GoBuilder) Where(expr string) *GoBuilder {
	b.where = expr
	return b
}

// Yield appends output expressions.
func (b *GoBuilder) Yield(exprs ...string) *GoBuilder {
	b.yield = append(b.yield, exprs...)
	return b
}

// YieldEdge yields the edge endpoints as src/dst followed by the given edge properties.
func (b *GoBuilder) YieldEdge(props ...string) *GoBuilder {
	b.yield = append(b.yield,
		b.over+"._src AS "+ColumnSrc,
		b.over+"._dst AS "+ColumnDst,
	)
	for _, p := range props {
		b.yield = append(b.yield, b.over+"."+p+" AS "+p)
	}
	return b
}

// Limit limits the number of returned rows.
func (b *GoBuilder) Limit(n int) *GoBuilder {
	b.limit = n
	return b
}

// String implements Query.
func (b *GoBuilder) String() string {
	var sb strings.Builder
	sb.WriteString("GO ")
	if b.steps > 1 {
		sb.WriteString(strconv.Itoa(b.steps))
		sb.WriteString(" STEPS ")
	}
	sb.WriteString("FROM ")
	sb.WriteString(strings.Join(b.from, ","))
	sb.WriteString(" OVER ")
	sb.WriteString(b.over)
	if b.reversely {
		sb.WriteString(" REVERSELY")
	}
	if b.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where)
	}
	if len(b.yield) > 0 {
		sb.WriteString(" YIELD ")
		sb.WriteString(strings.Join(b.yield, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" | LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String()
}

// FetchBuilder renders a FETCH PROP ON statement.
type FetchBuilder struct {
	tag   string
	ids   []string
	yield []string
}

// Fetch starts a FETCH PROP ON statement for the given tag.
func Fetch(tag string) *FetchBuilder {
	return &FetchBuilder{tag: tag}
}

// IDs appends encoded vertex ids.
func (b *FetchBuilder) IDs(ids ...string) *FetchBuilder {
	b.ids = append(b.ids, ids...)
	return b
}

// Yield appends output expressions.
func (b *FetchBuilder) Yield(exprs ...string) *FetchBuilder {
	b.yield = append(b.yield, exprs...)
	return b
}

// YieldVertex yields the vertex id as vid followed by the given tag properties.
func (b *FetchBuilder) YieldVertex(props ...string) *FetchBuilder {
	b.yield = append(b.yield, "id(vertex) AS "+ColumnVID)
	for _, p := range props {
		b.yield = append(b.yield, b.tag+"."+p+" AS "+p)
	}
	return b
}

// String implements Query.
func (b *FetchBuilder) String() string {
	var sb strings.Builder
	sb.WriteString("FETCH PROP ON ")
	sb.WriteString(b.tag)
	sb.WriteByte(' ')
	sb.WriteString(strings.Join(b.ids, ","))
	if len(b.yield) > 0 {
		sb.WriteString(" YIELD ")
		sb.WriteString(strings.Join(b.yield, ", "))
	}
	return sb.String()
}

var (
	_ Query = (*InsertVertexBuilder)(nil)
	_ Query = (*InsertEdgeBuilder)(nil)
	_ Query = (*GoBuilder)(nil)
	_ Query = (*FetchBuilder)(nil)
)
