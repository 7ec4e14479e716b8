// Package mixin provides reusable field sets for declared graph types.
//
// Mixins are applied through the Mixin method of a declared type. Their
// fields are enumerated before the type's own fields, in the order the
// mixins are listed:
//
//	type Person struct{ ocean.Schema }
//
//	func (Person) Mixin() []ocean.Mixin {
//	    return []ocean.Mixin{
//	        mixin.Time{},
//	    }
//	}
//
// # Composition
//
// A declared type reuses the fields of another declared type explicitly with
// Inherit; nothing is walked implicitly:
//
//	func (Employee) Mixin() []ocean.Mixin {
//	    return []ocean.Mixin{
//	        mixin.Inherit(Person{}),
//	    }
//	}
//
// # Custom Mixins
//
//	type Audit struct{ mixin.Schema }
//
//	func (Audit) Fields() []ocean.Field {
//	    return []ocean.Field{
//	        field.String("created_by"),
//	    }
//	}
package mixin
