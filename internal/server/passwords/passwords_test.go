package passwords

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

// encodeWithIterations builds a valid encoding with an arbitrary iteration
// count, so tests exercising Verify do not pay the full production cost.
func encodeWithIterations(password string, iters int) string {
	salt := []byte("0123456789abcdef")
	key := pbkdf2.Key([]byte(password), salt, iters, keySize, sha256.New)
	return strings.Join([]string{
		algorithmTag,
		prfTag,
		fmt.Sprintf("%d", iters),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "$")
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	v := NewVerifier(0)

	encoded, err := v.Hash("Sup3rSecret!")
	require.NoError(t, err)

	assert.True(t, v.IsWellFormed(encoded))
	assert.True(t, v.Verify("Sup3rSecret!", encoded))
	assert.False(t, v.Verify("sup3rsecret!", encoded))
	assert.False(t, v.Verify("", encoded))
}

func TestHash_DistinctSalts(t *testing.T) {
	t.Parallel()

	v := NewVerifier(0)

	a, err := v.Hash("same password")
	require.NoError(t, err)
	b, err := v.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must differ by salt")
	assert.True(t, v.Verify("same password", a))
	assert.True(t, v.Verify("same password", b))
}

func TestIsWellFormed(t *testing.T) {
	t.Parallel()

	v := NewVerifier(0)

	tests := []struct {
		name    string
		encoded string
		want    bool
	}{
		{name: "valid", encoded: encodeWithIterations("x", 10_000), want: true},
		{name: "empty", encoded: "", want: false},
		{name: "whitespace", encoded: "   ", want: false},
		{name: "too few fields", encoded: "PBKDF2$HMACSHA1$1000$c2FsdA==", want: false},
		{name: "too many fields", encoded: "PBKDF2$HMACSHA1$1000$a$b$c", want: false},
		{name: "doubled delimiter collapses field", encoded: "PBKDF2$HMACSHA1$$1000$c2FsdA==", want: false},
		{name: "wrong algorithm", encoded: "SCRYPT$HMACSHA1$1000$a$b", want: false},
		{name: "wrong prf", encoded: "PBKDF2$HMACSHA256$1000$a$b", want: false},
		{name: "non-numeric iterations", encoded: "PBKDF2$HMACSHA1$lots$a$b", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, v.IsWellFormed(tc.encoded))
		})
	}
}

func TestVerify_MalformedNeverPanics(t *testing.T) {
	t.Parallel()

	v := NewVerifier(0)

	for _, encoded := range []string{
		"",
		"garbage",
		"PBKDF2$HMACSHA1$1000$!!notbase64!!$AAAA",
		"PBKDF2$HMACSHA1$1000$AAAA$!!notbase64!!",
		"a$b$c$d$e",
	} {
		assert.False(t, v.Verify("password", encoded), "encoded=%q", encoded)
	}
}

func TestVerify_IterationFloor(t *testing.T) {
	t.Parallel()

	v := NewVerifier(10_000)

	low := encodeWithIterations("pw", 9_999)
	assert.False(t, v.Verify("pw", low), "below-floor iteration count must be rejected")

	ok := encodeWithIterations("pw", 10_000)
	assert.True(t, v.Verify("pw", ok))
}

func TestVerify_TruncatedStoredKey(t *testing.T) {
	t.Parallel()

	v := NewVerifier(0)

	encoded := encodeWithIterations("pw", 10_000)
	parts := strings.Split(encoded, "$")

	key, err := base64.StdEncoding.DecodeString(parts[4])
	require.NoError(t, err)
	parts[4] = base64.StdEncoding.EncodeToString(key[:len(key)-1])

	assert.False(t, v.Verify("pw", strings.Join(parts, "$")))
}
