// Package privacy provides rules deciding whether the typed reads and batch
// writes of a mapper may reach the store.
//
// A Policy holds a read policy and a write policy. Rules return Allow, Deny
// or Skip; the first decision other than Skip ends the evaluation and a
// policy whose rules all skip allows the operation.
//
//	m := mapper.New(exec, mapper.WithPolicy(privacy.Policy{
//		Read: privacy.ReadPolicy{
//			privacy.TenantReadRule(),
//		},
//		Write: privacy.WritePolicy{
//			privacy.DenyIfNoViewer(),
//			privacy.HasRole("admin"),
//			privacy.TenantRule("tenant_id"),
//		},
//	}))
//
// Writes are evaluated per statement after the whole batch validated and
// before any statement is dispatched, so a denied batch writes nothing.
//
// The viewer is carried by the context:
//
//	ctx = privacy.WithViewer(ctx, &privacy.SimpleViewer{
//		UserID:   "u1",
//		TenantID: "acme",
//	})
//
// A decision attached with DecisionContext overrides every policy, which
// lets trusted code bypass the rules:
//
//	ctx = privacy.DecisionContext(ctx, privacy.Allow)
package privacy
