// Package ngql renders nGQL statements and literals for the graph store.
//
// Builders in this package never talk to the store. They produce statement
// text that is handed to a dialect.Executor by the mapper:
//
//	stmt := ngql.InsertVertex("person", "name", "age").
//	    Values(`"alice"`, "Alice", 30).
//	    String()
//	// INSERT VERTEX person(name,age) VALUES "alice":("Alice",30)
package ngql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// specialChars matches characters that would corrupt a statement when
// embedded inside a quoted literal.
var specialChars = regexp.MustCompile(`[\n\t"'()<>/\\]`)

// RemoveSpecialChar strips newline, tab, quotes, parentheses, angle brackets,
// slash and backslash from s. It is a best-effort sanitizer, not an escaping
// scheme: the removed characters are lost.
func RemoveSpecialChar(s string) string {
	if !specialChars.MatchString(s) {
		return s
	}
	return specialChars.ReplaceAllString(s, "")
}

// Expr is a raw nGQL expression. Literal emits it verbatim.
type Expr string

// String implements fmt.Stringer.
func (e Expr) String() string { return string(e) }

// Quote returns s as a double-quoted string literal with special characters removed.
func Quote(s string) string {
	return `"` + RemoveSpecialChar(s) + `"`
}

// Layouts used when rendering time values.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Literal renders v as an nGQL literal.
func Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case Expr:
		return string(v)
	case string:
		return Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return Func("datetime", v.Format(DateTimeLayout))
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return Func("datetime", v.Format(DateTimeLayout))
	case fmt.Stringer:
		return Quote(v.String())
	default:
		return Quote(fmt.Sprint(v))
	}
}

// Func renders a function call on a quoted argument, e.g. date("2020-01-02").
func Func(name, arg string) string {
	return name + "(" + Quote(arg) + ")"
}

// Literals renders each value with Literal and joins them with commas.
func Literals(vs ...any) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Literal(v))
	}
	return b.String()
}

// Now returns the current time in store precision (seconds since the epoch).
func Now() int64 {
	return time.Now().Unix()
}

// DateSeconds returns the start of t's day, in t's location, as seconds since the epoch.
func DateSeconds(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Unix()
}
