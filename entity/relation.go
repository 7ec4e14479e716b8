package entity

import (
	"fmt"
	"reflect"

	"github.com/spaolacci/murmur3"

	"github.com/syssam/ocean"
)

// Relation is the type-erased view of an edge.
type Relation interface {
	Label() string
	Endpoints() (src, dst any)
	IgnoreDirect() bool
	Level() int
}

var _ Relation = (*Edge[string, string])(nil)

// EqualRelations compares two edges whose identifier types are only known at
// run time. Identifiers of differing types are not compared: an
// *ocean.IncompatibleIdentifierTypeError is returned instead.
func EqualRelations(a, b Relation) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	as, ad := a.Endpoints()
	bs, bd := b.Endpoints()
	if err := compatible(as, bs); err != nil {
		return false, err
	}
	if err := compatible(ad, bd); err != nil {
		return false, err
	}
	if as != bs || ad != bd {
		return false, nil
	}
	ae, aok := a.(schemaOwner)
	be, bok := b.(schemaOwner)
	if !aok || !bok {
		return a.Label() == b.Label(), nil
	}
	sa, sb := ae.endpointOwners()
	ta, tb := be.endpointOwners()
	return sa == ta && sb == tb, nil
}

type schemaOwner interface {
	endpointOwners() (src, dst string)
}

func (e *Edge[S, D]) endpointOwners() (src, dst string) {
	return ownerOf(e.schema.Src()), ownerOf(e.schema.Dst())
}

func compatible(a, b any) error {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return &ocean.IncompatibleIdentifierTypeError{Left: fmt.Sprint(ta), Right: fmt.Sprint(tb)}
	}
	return nil
}

func hashOf(v any) uint64 {
	switch v := v.(type) {
	case string:
		return murmur3.Sum64([]byte(v))
	case []byte:
		return murmur3.Sum64(v)
	default:
		return murmur3.Sum64([]byte(fmt.Sprint(v)))
	}
}

func combine(hs ...uint64) uint64 {
	h := uint64(1)
	for _, x := range hs {
		h = 31*h + x
	}
	return h
}
