package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testParams() Params {
	// Small parameters to keep the test fast; production values come from
	// DefaultParams.
	return Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	h := NewHasher(testParams())

	digest, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$argon2id$"))

	ok, err := h.Verify("Str0ng!Pass", digest)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("Wr0ng!Pass", digest)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHash_SaltsDiffer(t *testing.T) {
	h := NewHasher(testParams())

	a, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	b, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerify_MalformedDigest(t *testing.T) {
	h := NewHasher(testParams())

	for _, digest := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192$c2FsdA$aGFzaA",
	} {
		_, err := h.Verify("whatever", digest)
		require.Error(t, err, "digest %q", digest)
	}
}

func TestCheckPolicy(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		missing []string
	}{
		{name: "accepts strong password", in: "Str0ng!Pass"},
		{name: "too short", in: "S0r!t", missing: []string{RuleMinLength}},
		{name: "no uppercase", in: "weak1pass!", missing: []string{RuleUppercase}},
		{name: "no special", in: "Weak1Pass", missing: []string{RuleSpecial}},
		{name: "reports every miss", in: "pass", missing: []string{RuleMinLength, RuleUppercase, RuleDigit, RuleSpecial}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPolicy(tt.in)
			if len(tt.missing) == 0 {
				require.NoError(t, err)
				return
			}
			var weak *WeakPasswordError
			require.ErrorAs(t, err, &weak)
			require.Equal(t, tt.missing, weak.Missing)
		})
	}
}
