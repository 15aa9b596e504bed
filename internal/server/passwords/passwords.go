// Package passwords derives and checks password hashes using PBKDF2-SHA256
// with a per-password random salt. The encoded form is self-describing
// (algorithm, PRF, iteration count, salt, derived key), which allows the
// iteration count to be raised over time without a schema change.
package passwords

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/mkragh/socialapi/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 20
	iterations = 1_000_000

	// Tags kept as written by earlier generations of the system so that
	// existing hash artifacts keep verifying.
	algorithmTag = "PBKDF2"
	prfTag       = "HMACSHA1"

	// DefaultMinIterations is the floor below which a stored hash is
	// rejected outright, as a defense against downgrade artifacts.
	DefaultMinIterations = 10_000
)

// Verifier hashes and verifies passwords. The zero value is not usable;
// construct with NewVerifier.
type Verifier struct {
	minIterations int
}

// NewVerifier returns a Verifier that rejects stored hashes whose iteration
// count is below minIterations. Values < 1 fall back to DefaultMinIterations.
func NewVerifier(minIterations int) *Verifier {
	if minIterations < 1 {
		minIterations = DefaultMinIterations
	}
	return &Verifier{minIterations: minIterations}
}

// Hash derives a key from password under a fresh random salt and returns the
// encoded record: algorithm$prf$iterations$base64(salt)$base64(key).
// The plaintext is never stored or logged.
func (v *Verifier) Hash(password string) (string, error) {
	salt, err := common.RandBytes(saltSize)
	if err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)

	parts := []string{
		algorithmTag,
		prfTag,
		strconv.Itoa(iterations),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}
	return strings.Join(parts, "$"), nil
}

// IsWellFormed reports whether encoded is structurally valid: exactly five
// non-empty $-separated fields, known algorithm and PRF tags, and a numeric
// iteration field. It does not prove the hash is cryptographically sound.
func (v *Verifier) IsWellFormed(encoded string) bool {
	if strings.TrimSpace(encoded) == "" {
		return false
	}
	parts := splitEncoded(encoded)
	if len(parts) != 5 {
		return false
	}
	if parts[0] != algorithmTag || parts[1] != prfTag {
		return false
	}
	if _, err := strconv.Atoi(parts[2]); err != nil {
		return false
	}
	return true
}

// Verify re-derives a key using the salt and iteration count stored in
// encoded and compares it against the stored key in constant time. It
// returns false, never an error, for malformed input, decode failures,
// iteration counts below the configured floor, or a mismatch.
func (v *Verifier) Verify(password, encoded string) bool {
	if !v.IsWellFormed(encoded) {
		return false
	}
	parts := splitEncoded(encoded)

	iters, err := strconv.Atoi(parts[2])
	if err != nil || iters < v.minIterations {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	actual := pbkdf2.Key([]byte(password), salt, iters, keySize, sha256.New)

	// XOR-accumulate over the full overlap regardless of where the first
	// mismatch occurs, so the comparison leaks no match-length timing.
	diff := len(actual) ^ len(expected)
	n := len(actual)
	if len(expected) < n {
		n = len(expected)
	}
	for i := 0; i < n; i++ {
		diff |= int(actual[i] ^ expected[i])
	}
	return diff == 0
}

// splitEncoded splits on '$' and drops empty fields, so doubled or leading
// delimiters change the field count instead of producing empty fields.
func splitEncoded(encoded string) []string {
	raw := strings.Split(encoded, "$")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
