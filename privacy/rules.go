package privacy

import (
	"context"
	"fmt"
	"slices"

	"github.com/syssam/ocean"
)

// Viewer describes the caller a mapper acts for.
type Viewer interface {
	GetID() string
	GetRoles() []string
	GetTenantID() string
}

type viewerCtxKey struct{}

// WithViewer returns a context carrying viewer.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// ViewerFromContext returns the viewer of ctx, or nil.
func ViewerFromContext(ctx context.Context) Viewer {
	v, _ := ctx.Value(viewerCtxKey{}).(Viewer)
	return v
}

// SimpleViewer is a Viewer backed by plain values.
type SimpleViewer struct {
	UserID   string
	Roles    []string
	TenantID string
}

func (v *SimpleViewer) GetID() string       { return v.UserID }
func (v *SimpleViewer) GetRoles() []string  { return v.Roles }
func (v *SimpleViewer) GetTenantID() string { return v.TenantID }

// DenyIfNoViewer denies reads and writes without a viewer in the context.
func DenyIfNoViewer() ReadWriteRule {
	return ContextRule(func(ctx context.Context) error {
		if ViewerFromContext(ctx) == nil {
			return Denyf("ocean/privacy: viewer required")
		}
		return Skip
	})
}

// HasRole allows reads and writes of viewers holding role.
func HasRole(role string) ReadWriteRule {
	return HasAnyRole(role)
}

// HasAnyRole allows reads and writes of viewers holding one of roles.
func HasAnyRole(roles ...string) ReadWriteRule {
	return ContextRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		for _, role := range viewer.GetRoles() {
			if slices.Contains(roles, role) {
				return Allow
			}
		}
		return Skip
	})
}

// ReadOnly denies every write.
func ReadOnly() WriteRule {
	return WriteRuleFunc(func(_ context.Context, w Write) error {
		return Denyf("ocean/privacy: %s on %s: read only", w.Op, w.Label)
	})
}

// DenyEdgeWrites denies writes of edge types.
func DenyEdgeWrites() WriteRule {
	return WriteRuleFunc(func(_ context.Context, w Write) error {
		if w.Kind == ocean.KindEdge {
			return Denyf("ocean/privacy: edge type %s is not writable", w.Label)
		}
		return Skip
	})
}

// TenantRule allows a write when every row carries the viewer's tenant in
// property, and denies it when any row carries another one. Writes of
// labels without the property, and viewers without a tenant, are skipped.
//
//	privacy.Policy{
//		Write: privacy.WritePolicy{
//			privacy.DenyIfNoViewer(),
//			privacy.TenantRule("tenant_id"),
//		},
//	}
func TenantRule(property string) WriteRule {
	return WriteRuleFunc(func(ctx context.Context, w Write) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil || viewer.GetTenantID() == "" {
			return Skip
		}
		tenant := viewer.GetTenantID()
		var seen bool
		for i, v := range w.Values(property) {
			if v == nil {
				continue
			}
			seen = true
			if fmt.Sprint(v) != tenant {
				return Denyf("ocean/privacy: %s row %d: tenant mismatch", w.Label, i)
			}
		}
		if !seen {
			return Skip
		}
		return Allow
	})
}

// TenantReadRule denies reads without a viewer tenant.
func TenantReadRule() ReadRule {
	return ReadRuleFunc(func(ctx context.Context, _ Read) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Denyf("ocean/privacy: viewer required for tenant-scoped read")
		}
		if viewer.GetTenantID() == "" {
			return Denyf("ocean/privacy: tenant required")
		}
		return Skip
	})
}
