// Package schema groups the building blocks of graph type declarations:
//
//   - [field]: property builders
//   - [mixin]: reusable field sets and explicit composition
//
// A declared type embeds ocean.Schema and returns its label configuration,
// fields and mixins:
//
//	type Follow struct{ ocean.Schema }
//
//	func (Follow) Config() ocean.Config {
//	    return ocean.Config{
//	        Label: "follow",
//	        Kind:  ocean.KindEdge,
//	        Src:   Person{},
//	        Dst:   Person{},
//	    }
//	}
//
//	func (Follow) Fields() []ocean.Field {
//	    return []ocean.Field{
//	        field.Double("degree").Required(),
//	    }
//	}
package schema
