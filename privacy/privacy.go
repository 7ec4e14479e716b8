package privacy

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/syssam/ocean"
)

// Policy decision sentinel errors.
//
// These errors are used as return values from policy rules to indicate
// how the policy evaluation should proceed. Use errors.Is() to check
// for these values:
//
//	if errors.Is(err, privacy.Allow) { ... }
//	if errors.Is(err, privacy.Deny) { ... }
//	if errors.Is(err, privacy.Skip) { ... }
var (
	// Allow may be returned by rules to indicate that the policy
	// evaluation should terminate with an allow decision.
	Allow = errors.New("ocean/privacy: allow rule")

	// Deny may be returned by rules to indicate that the policy
	// evaluation should terminate with a deny decision.
	Deny = errors.New("ocean/privacy: deny rule")

	// Skip may be returned by rules to indicate that the policy
	// evaluation should continue to the next rule in the chain.
	Skip = errors.New("ocean/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Read describes a typed read about to run.
type Read struct {
	Op    string
	Space string
	Label string
	Kind  ocean.Kind
}

// Write describes one statement of a typed batch write about to run. Rows
// holds the property bag of each entity with its identity properties filled
// in, before defaults and formatting apply.
type Write struct {
	Op    string
	Space string
	Label string
	Kind  ocean.Kind
	Rows  []map[string]any
}

// Values returns the value of property in every row, nil where unset.
func (w Write) Values(property string) []any {
	out := make([]any, len(w.Rows))
	for i, r := range w.Rows {
		out[i] = r[property]
	}
	return out
}

type (
	// ReadRule decides whether a read is allowed.
	ReadRule interface {
		EvalRead(context.Context, Read) error
	}

	// ReadPolicy combines multiple read rules into a single policy.
	ReadPolicy []ReadRule

	// WriteRule decides whether a write is allowed.
	WriteRule interface {
		EvalWrite(context.Context, Write) error
	}

	// WritePolicy combines multiple write rules into a single policy.
	WritePolicy []WriteRule

	// ReadWriteRule groups read and write rules.
	ReadWriteRule interface {
		ReadRule
		WriteRule
	}
)

// ReadRuleFunc type is an adapter which allows the use of
// ordinary functions as read rules.
type ReadRuleFunc func(context.Context, Read) error

// EvalRead returns f(ctx, r).
func (f ReadRuleFunc) EvalRead(ctx context.Context, r Read) error {
	return f(ctx, r)
}

// WriteRuleFunc type is an adapter which allows the use of
// ordinary functions as write rules.
type WriteRuleFunc func(context.Context, Write) error

// EvalWrite returns f(ctx, w).
func (f WriteRuleFunc) EvalWrite(ctx context.Context, w Write) error {
	return f(ctx, w)
}

// AlwaysAllowRule returns a rule that always returns an Allow decision.
func AlwaysAllowRule() ReadWriteRule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always returns a Deny decision.
func AlwaysDenyRule() ReadWriteRule {
	return fixedDecision{Deny}
}

// ContextRule creates a read/write rule from a context evaluation function.
// Returning nil is equivalent to returning Skip.
func ContextRule(eval func(context.Context) error) ReadWriteRule {
	return contextDecision{eval}
}

// OnOperation evaluates the given rule only on the given write operations.
func OnOperation(rule WriteRule, ops ...string) WriteRule {
	return WriteRuleFunc(func(ctx context.Context, w Write) error {
		if slices.Contains(ops, w.Op) {
			return rule.EvalWrite(ctx, w)
		}
		return Skip
	})
}

// DenyOperationRule returns a rule denying the given write operations.
func DenyOperationRule(ops ...string) WriteRule {
	rule := WriteRuleFunc(func(_ context.Context, w Write) error {
		return Denyf("ocean/privacy: operation %s is not allowed", w.Op)
	})
	return OnOperation(rule, ops...)
}

// OnLabels evaluates the given rule only on reads and writes of the given
// labels.
func OnLabels(rule ReadWriteRule, labels ...string) ReadWriteRule {
	return labelRule{rule: rule, labels: labels}
}

type labelRule struct {
	rule   ReadWriteRule
	labels []string
}

func (l labelRule) EvalRead(ctx context.Context, r Read) error {
	if slices.Contains(l.labels, r.Label) {
		return l.rule.EvalRead(ctx, r)
	}
	return Skip
}

func (l labelRule) EvalWrite(ctx context.Context, w Write) error {
	if slices.Contains(l.labels, w.Label) {
		return l.rule.EvalWrite(ctx, w)
	}
	return Skip
}

// Policy groups read and write policies.
type Policy struct {
	Read  ReadPolicy
	Write WritePolicy
}

// EvalRead forwards evaluation to the read policy.
func (p Policy) EvalRead(ctx context.Context, r Read) error {
	return p.Read.EvalRead(ctx, r)
}

// EvalWrite forwards evaluation to the write policy.
func (p Policy) EvalWrite(ctx context.Context, w Write) error {
	return p.Write.EvalWrite(ctx, w)
}

// Policies combines multiple policies into a single policy. A decision
// attached to the context by DecisionContext overrides every policy.
type Policies []Policy

// EvalRead evaluates the read policies. If the Allow error is returned
// from one of the policies, it stops the evaluation with a nil error.
func (policies Policies) EvalRead(ctx context.Context, r Read) error {
	return policies.eval(ctx, func(policy Policy) error {
		return policy.EvalRead(ctx, r)
	})
}

// EvalWrite evaluates the write policies. If the Allow error is returned
// from one of the policies, it stops the evaluation with a nil error.
func (policies Policies) EvalWrite(ctx context.Context, w Write) error {
	return policies.eval(ctx, func(policy Policy) error {
		return policy.EvalWrite(ctx, w)
	})
}

func (policies Policies) eval(ctx context.Context, eval func(Policy) error) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, policy := range policies {
		switch decision := eval(policy); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

// EvalRead evaluates a read against a read policy.
func (policies ReadPolicy) EvalRead(ctx context.Context, r Read) error {
	for _, policy := range policies {
		switch decision := policy.EvalRead(ctx, r); {
		case decision == nil || errors.Is(decision, Skip):
		default:
			return decision
		}
	}
	return nil
}

// EvalWrite evaluates a write against a write policy.
func (policies WritePolicy) EvalWrite(ctx context.Context, w Write) error {
	for _, policy := range policies {
		switch decision := policy.EvalWrite(ctx, w); {
		case decision == nil || errors.Is(decision, Skip):
		default:
			return decision
		}
	}
	return nil
}

type decisionCtxKey struct{}

// DecisionContext creates a new context from the given parent context with
// a policy decision attached to it.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves the policy decision from the context.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) EvalRead(context.Context, Read) error {
	return f.decision
}

func (f fixedDecision) EvalWrite(context.Context, Write) error {
	return f.decision
}

type contextDecision struct {
	eval func(context.Context) error
}

func (c contextDecision) EvalRead(ctx context.Context, _ Read) error {
	return c.eval(ctx)
}

func (c contextDecision) EvalWrite(ctx context.Context, _ Write) error {
	return c.eval(ctx)
}
