package ocean_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ocean"
)

func TestPolicyEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy ocean.Policy
		raw    string
		want   string
	}{
		{ocean.StringKey, "abc", `"abc"`},
		{ocean.UUID, "abc", `uuid("abc")`},
		{ocean.Hash, "abc", `hash("abc")`},
		{ocean.Int64, "42", "42"},
		{ocean.StringKey, "", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String()+"/"+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Encode(tt.raw))
			// Deterministic.
			assert.Equal(t, tt.policy.Encode(tt.raw), tt.policy.Encode(tt.raw))
		})
	}
}

func TestPolicyEncodeInjective(t *testing.T) {
	t.Parallel()

	raws := []string{"", "a", "b", "ab", "a b", `a"b`, "1", "01", "abc"}
	for _, p := range []ocean.Policy{ocean.StringKey, ocean.Int64, ocean.UUID, ocean.Hash} {
		seen := make(map[string]string)
		for _, raw := range raws {
			enc := p.Encode(raw)
			prev, dup := seen[enc]
			assert.False(t, dup, "%s: %q and %q both encode to %s", p, prev, raw, enc)
			seen[enc] = raw
		}
	}
}

func TestPolicyEncodeAll(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ocean.UUID.EncodeAll(nil))
	assert.Equal(t, "", ocean.StringKey.EncodeAll([]string{}))
	assert.Equal(t, `"a","b"`, ocean.StringKey.EncodeAll([]string{"a", "b"}))
	assert.Equal(t, `hash("a"),hash("b")`, ocean.Hash.EncodeAll([]string{"a", "b"}))
	assert.Equal(t, "1,2,3", ocean.Int64.EncodeAll([]string{"1", "2", "3"}))
}

func TestPolicyWrapWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "uuid", ocean.UUID.WrapWord())
	assert.Equal(t, "hash", ocean.Hash.WrapWord())
	assert.Empty(t, ocean.StringKey.WrapWord())
	assert.Empty(t, ocean.Int64.WrapWord())
}

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	got, err := ocean.EncodeValue(ocean.Int64, int64(42))
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = ocean.EncodeValue(ocean.Int64, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = ocean.EncodeValue(ocean.StringKey, 7)
	require.NoError(t, err)
	assert.Equal(t, `"7"`, got)

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	got, err = ocean.EncodeValue(ocean.UUID, id)
	require.NoError(t, err)
	assert.Equal(t, `uuid("6ba7b810-9dad-11d1-80b4-00c04fd430c8")`, got)

	_, err = ocean.EncodeValue(ocean.Int64, "alice")
	var target *ocean.IncompatibleIdentifierTypeError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "int64", target.Left)
	assert.Equal(t, "string", target.Right)

	_, err = ocean.EncodeValue(ocean.Int64, id)
	assert.True(t, ocean.IsIncompatibleIdentifierType(err))

	_, err = ocean.EncodeValue(ocean.StringKey, 1.5)
	assert.True(t, ocean.IsIncompatibleIdentifierType(err))

	_, err = ocean.EncodeValue(ocean.StringKey, nil)
	assert.Error(t, err)
}

func TestEncodeValues(t *testing.T) {
	t.Parallel()

	got, err := ocean.EncodeValues(ocean.StringKey, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `"a","b"`, got)

	got, err = ocean.EncodeValues[int64](ocean.Int64, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ocean.EncodeValues(ocean.Int64, []string{"1", "x"})
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for _, p := range []ocean.Policy{ocean.StringKey, ocean.Int64, ocean.UUID, ocean.Hash} {
		got, err := ocean.ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)

		text, err := p.MarshalText()
		require.NoError(t, err)
		var back ocean.Policy
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, p, back)
	}

	got, err := ocean.ParsePolicy(" UUID ")
	require.NoError(t, err)
	assert.Equal(t, ocean.UUID, got)

	got, err = ocean.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ocean.StringKey, got)

	_, err = ocean.ParsePolicy("md5")
	assert.Error(t, err)

	_, err = ocean.Policy(99).MarshalText()
	assert.Error(t, err)
}
