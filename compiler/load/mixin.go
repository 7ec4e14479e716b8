package load

import (
	"github.com/syssam/ocean"
	contribmixin "github.com/syssam/ocean/contrib/mixin"
	"github.com/syssam/ocean/schema/mixin"
)

// Mixin is a mixin that schema files can name.
type Mixin struct {
	// Name is the name used in schema files.
	Name string
	// PkgPath and Ident locate the Go type of the mixin.
	PkgPath string
	Ident   string

	value ocean.Mixin
}

// Value returns the mixin.
func (m Mixin) Value() ocean.Mixin { return m.value }

const (
	mixinPkg        = "github.com/syssam/ocean/schema/mixin"
	contribMixinPkg = "github.com/syssam/ocean/contrib/mixin"
)

var mixins = map[string]Mixin{
	"time":        {"time", mixinPkg, "Time", mixin.Time{}},
	"create_time": {"create_time", mixinPkg, "CreateTime", mixin.CreateTime{}},
	"update_time": {"update_time", mixinPkg, "UpdateTime", mixin.UpdateTime{}},
	"uuid":        {"uuid", contribMixinPkg, "UUID", contribmixin.UUID{}},
	"soft_delete": {"soft_delete", contribMixinPkg, "SoftDelete", contribmixin.SoftDelete{}},
	"tenant_id":   {"tenant_id", contribMixinPkg, "TenantID", contribmixin.TenantID{}},
	"audit":       {"audit", contribMixinPkg, "Audit", contribmixin.Audit{}},
}

// LookupMixin returns the mixin known by name.
func LookupMixin(name string) (Mixin, bool) {
	m, ok := mixins[name]
	return m, ok
}
