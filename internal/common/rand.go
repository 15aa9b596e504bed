package common

import (
	"crypto/rand"
	"encoding/base64"
)

// RandBytes returns size cryptographically random bytes. The process-wide
// crypto/rand reader is safe for concurrent use.
func RandBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MakeRandTokenString generates an opaque token from size random bytes,
// standard base64-encoded with padding stripped. At 64 bytes of entropy the
// result is unguessable and collisions are treated as negligible; uniqueness
// is still enforced by the storage layer.
func MakeRandTokenString(size int) (string, error) {
	b, err := RandBytes(size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString(b), nil
}
