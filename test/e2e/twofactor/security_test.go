package twofactor_test

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/twofactor/pkg/tfasdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRequired(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	ctx := t.Context()

	// No token
	anon := tfasdk.NewClient(baseURL, "")
	_, err := anon.Providers(ctx)
	require.Error(t, err)
	var apiErr *tfasdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Wrong token
	bad := tfasdk.NewClient(baseURL, "wrong-token")
	_, err = bad.Providers(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// JWKS stays public
	_, err = anon.JWKS(ctx)
	require.NoError(t, err)
}

func TestAttestationVerifiesAgainstJWKS(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)
	ctx := t.Context()

	enrollment, err := client.Enroll(ctx, "frank", "totp", url.Values{})
	require.NoError(t, err)

	resp, err := client.Validate(ctx, "frank", currentCode(t, enrollment.Provisioning.Secret))
	require.NoError(t, err)

	jwks, err := client.JWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	pubBytes, err := base64.RawURLEncoding.DecodeString(jwks.Keys[0].X)
	require.NoError(t, err)

	parsed, err := jwt.Parse(resp.Attestation, func(token *jwt.Token) (any, error) {
		require.Equal(t, jwks.Keys[0].Kid, token.Header["kid"])
		return ed25519.PublicKey(pubBytes), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "frank", claims["sub"])
	require.Equal(t, "twofactor-e2e", claims["iss"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(5*time.Minute), exp.Time, time.Minute)
}

func TestValidateRejectsAmbiguousRequest(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := &http.Client{Timeout: 10 * time.Second}
	ctx := t.Context()

	body, err := json.Marshal(tfasdk.ValidateRequest{Token: "123456", BackupCode: "ABCD1234"})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		baseURL+"/v1/users/alice/twofactor/validate", strings.NewReader(string(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimitOnValidate(t *testing.T) {
	baseURL, cleanup := setupContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)
	ctx := t.Context()

	_, err := client.Enroll(ctx, "grace", "totp", url.Values{})
	require.NoError(t, err)

	// Hammer the validate endpoint until the limiter kicks in
	limited := false
	for range 50 {
		_, err := client.Validate(ctx, "grace", "000000")
		var apiErr *tfasdk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "expected the strict rate limit to trigger")
}
