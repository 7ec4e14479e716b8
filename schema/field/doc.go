// Package field provides fluent builders for declaring graph properties.
//
// The builder argument is the store property name. The Go-side field name is
// derived from it and can be overridden:
//
//	field.String("user_name")                       // Go: UserName
//	field.String("nick").StructField("Nickname")    // Go: Nickname
//
// # Roles
//
// A field is either an ordinary property or carries exactly one identity role:
//
//	field.String("name").VertexID()   // the vertex identifier
//	field.Int64("from").SrcID()       // the edge source identifier
//	field.Int64("to").DstID()         // the edge destination identifier
//
// Identity fields become stored properties only when the declaring type asks
// for it (ocean.Config IDAsField, SrcIDAsField, DstIDAsField).
//
// # Formatters
//
//	field.String("email").Formatter(format.Lower)
//	field.Time("born").FormatterName("date")
//
// Builder errors do not panic; they are recorded on the descriptor and
// reported when the label schema is built.
package field
