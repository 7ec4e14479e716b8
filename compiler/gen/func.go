package gen

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms are kept upper-cased in generated identifiers.
var acronyms = map[string]bool{
	"API":  true,
	"HTTP": true,
	"ID":   true,
	"IP":   true,
	"JSON": true,
	"URL":  true,
	"UUID": true,
	"XML":  true,
}

// pascal converts a property name to an exported Go identifier:
// user_id becomes UserID.
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	// Casers keep state and are not shared between goroutines.
	title := cases.Title(language.English, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		if up := strings.ToUpper(w); acronyms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// snake converts a type name to a file name stem: FollowEdge becomes follow_edge.
func snake(s string) string {
	return inflect.Underscore(s)
}
