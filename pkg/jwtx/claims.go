package jwtx

import (
	"errors"
	"time"

	"github.com/aussiebroadwan/twofactor/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAttestationTTL is the default lifetime of a second-factor
// attestation. It only needs to outlive the web layer's redirect back into
// the authenticated session, so it is deliberately short.
const DefaultAttestationTTL = 5 * time.Minute

// Claims are the attestation claims minted after a successful second-factor
// validation. The subject is the username the factor was verified for.
type Claims struct {
	jwt.RegisteredClaims

	// AMR is the Authentication Methods Reference, e.g. ["otp"] or ["sms"].
	// Carries the provider id that satisfied the second factor.
	AMR []string `json:"amr,omitempty"`
}

// NewAttestationClaims builds minimally-correct attestation claims.
func NewAttestationClaims(username, issuer string, amr []string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		AMR: amr,
	}
}

// ValidateExpiry checks the exp claim against the current time.
func (c *Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return errors.New("jwtx: token expired")
	}
	return nil
}

// ValidateIssuer checks the iss claim matches the expected issuer.
func (c *Claims) ValidateIssuer(issuer string) error {
	if c.Issuer != issuer {
		return errors.New("jwtx: issuer mismatch")
	}
	return nil
}
