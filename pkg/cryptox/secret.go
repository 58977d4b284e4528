package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Secret size constants (raw bytes before base32 encoding).
const (
	// SecretSize80 provides 80 bits of entropy (16 chars base32).
	SecretSize80 = 10
	// SecretSize128 provides 128 bits of entropy (26 chars base32).
	SecretSize128 = 16
	// SecretSize160 provides 160 bits of entropy (32 chars base32), per RFC 4226's
	// recommended shared secret length.
	SecretSize160 = 20
)

// b32 is the unpadded base32 encoding shared secrets travel in. Authenticator
// apps expect the secret without '=' padding.
var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// SecretLengths are the accepted base32-encoded secret lengths, matching
// 10/16/20-byte raw secrets.
var SecretLengths = []int{16, 26, 32}

// GenerateSecret creates a cryptographically secure random shared secret of
// size raw bytes and returns it base32-encoded without padding.
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}

	return b32.EncodeToString(buf), nil
}

// EncodeSecret base32-encodes raw secret bytes without padding.
func EncodeSecret(raw []byte) string {
	return b32.EncodeToString(raw)
}

// DecodeSecret decodes an unpadded base32 secret, enforcing the accepted
// encoded length set. Lowercase input is accepted and normalized.
func DecodeSecret(secret string) ([]byte, error) {
	secret = strings.ToUpper(strings.TrimSpace(secret))
	if !ValidSecretLength(secret) {
		return nil, fmt.Errorf("secret must be %v base32 characters, got %d", SecretLengths, len(secret))
	}

	raw, err := b32.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid base32 secret: %w", err)
	}
	return raw, nil
}

// ValidSecretLength reports whether the encoded secret has one of the
// accepted lengths.
func ValidSecretLength(secret string) bool {
	for _, n := range SecretLengths {
		if len(secret) == n {
			return true
		}
	}
	return false
}
