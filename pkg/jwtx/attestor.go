package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/twofactor/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Attestor mints and verifies EdDSA-signed second-factor attestations. Keys
// are ephemeral: generated at startup and published via JWKS, so consumers
// must refresh the key set after a service restart.
type Attestor struct {
	kid    string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
	ttl    time.Duration
}

// NewAttestor generates a fresh Ed25519 keypair for attestation signing.
func NewAttestor(issuer string, ttl time.Duration) (*Attestor, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate ed25519 key: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultAttestationTTL
	}

	return &Attestor{
		kid:    idx.New().String(),
		key:    key,
		pub:    pub,
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

func (a *Attestor) KID() string { return a.kid }

// IsReady reports whether signing keys are loaded.
func (a *Attestor) IsReady() bool { return a != nil && a.key != nil && a.pub != nil }

// Mint signs an attestation that username passed its second factor via the
// given provider id.
func (a *Attestor) Mint(username, providerID string) (string, error) {
	claims := NewAttestationClaims(username, a.issuer, []string{providerID}, a.ttl, time.Now())
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = a.kid
	return t.SignedString(a.key)
}

// Verify validates an attestation string and returns its parsed Claims.
func (a *Attestor) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != a.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return a.pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("jwtx: invalid token claims")
	}

	if err := claims.ValidateIssuer(a.issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return nil, err
	}

	return claims, nil
}

// JWKS returns the public key set for offline verification.
func (a *Attestor) JWKS() JWKS {
	return JWKS{Keys: []JWK{NewEd25519JWK(a.kid, "sig", jwt.SigningMethodEdDSA.Alg(), a.pub)}}
}

// MustJTI parses a jti claim back into an idx.ID, for audit logging.
func MustJTI(c *Claims) idx.ID {
	id, err := idx.Parse(c.ID)
	if err != nil {
		return idx.Zero
	}
	return id
}
