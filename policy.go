package ocean

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Policy is an identifier policy. It decides how a raw vertex identifier is
// rendered into the store's literal syntax.
type Policy uint8

// List of identifier policies.
const (
	// StringKey renders identifiers as quoted strings: "raw".
	StringKey Policy = iota
	// Int64 passes identifiers through unchanged.
	Int64
	// UUID renders identifiers through the store's uuid function: uuid("raw").
	UUID
	// Hash renders identifiers through the store's hash function: hash("raw").
	Hash
	endPolicies
)

var policyNames = [...]string{
	StringKey: "string_key",
	Int64:     "int64",
	UUID:      "uuid",
	Hash:      "hash",
}

// String returns the policy name.
func (p Policy) String() string {
	if p < endPolicies {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", p)
}

// Valid reports if p is a known policy.
func (p Policy) Valid() bool { return p < endPolicies }

// WrapWord returns the store function name used by the policy. It is empty
// for StringKey and Int64.
func (p Policy) WrapWord() string {
	switch p {
	case UUID:
		return "uuid"
	case Hash:
		return "hash"
	default:
		return ""
	}
}

// Encode renders a single raw identifier.
//
//	StringKey.Encode("abc") // "abc"
//	UUID.Encode("abc")      // uuid("abc")
//	Int64.Encode("42")      // 42
func (p Policy) Encode(raw string) string {
	switch p {
	case StringKey:
		return `"` + raw + `"`
	case Int64:
		return raw
	default:
		return p.WrapWord() + `("` + raw + `")`
	}
}

// EncodeAll renders each raw identifier and joins the results with a comma.
// An empty input yields an empty string.
func (p Policy) EncodeAll(raws []string) string {
	if len(raws) == 0 {
		return ""
	}
	var b strings.Builder
	for i, raw := range raws {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Encode(raw))
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("ocean: invalid key policy %d", p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePolicy returns the policy with the given name. The empty string is
// StringKey.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "string" {
		return StringKey, nil
	}
	for p, n := range policyNames {
		if n == name {
			return Policy(p), nil
		}
	}
	return 0, fmt.Errorf("ocean: unknown key policy %q", s)
}

// EncodeValue renders a typed identifier under policy p. Int64 accepts
// integers and strings holding a decimal integer; other values return an
// *IncompatibleIdentifierTypeError. The quoting policies accept strings,
// integers, uuid.UUID and fmt.Stringer values.
func EncodeValue(p Policy, v any) (string, error) {
	raw, ok := rawIdentifier(v)
	if ok && p == Int64 {
		_, err := strconv.ParseInt(raw, 10, 64)
		ok = err == nil
	}
	if !ok {
		return "", &IncompatibleIdentifierTypeError{Left: p.String(), Right: fmt.Sprintf("%T", v)}
	}
	return p.Encode(raw), nil
}

// EncodeValues renders typed identifiers and joins them with a comma.
func EncodeValues[T any](p Policy, vs []T) (string, error) {
	raws := make([]string, len(vs))
	for i := range vs {
		raw, err := EncodeValue(p, vs[i])
		if err != nil {
			return "", err
		}
		raws[i] = raw
	}
	return strings.Join(raws, ","), nil
}

func rawIdentifier(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case uuid.UUID:
		return v.String(), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
