package twofactor_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/aussiebroadwan/twofactor/pkg/tfasdk"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// currentCode computes the standard 30-second code for a secret, so the test
// can play the role of the user's authenticator app.
func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestProviderCatalog(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)

	resp, err := client.Providers(t.Context())
	require.NoError(t, err)
	require.Len(t, resp.Providers, 2)
	require.Equal(t, "totp", resp.Providers[0].ID)
	require.Equal(t, "Time-based code", resp.Providers[0].DisplayName)
	require.Equal(t, "authy", resp.Providers[1].ID)
	require.Equal(t, "Push verification", resp.Providers[1].DisplayName)
}

func TestTOTPEnrollValidateLifecycle(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)
	ctx := t.Context()

	// Not enrolled to begin with
	status, err := client.Status(ctx, "alice")
	require.NoError(t, err)
	require.False(t, status.Enrolled)

	// Enroll form exists and offers the secret field
	form, err := client.EnrollForm(ctx, "alice", "totp")
	require.NoError(t, err)
	require.Len(t, form.Fields, 1)
	require.Equal(t, "secret", form.Fields[0].Name)

	// Enroll with a generated secret
	enrollment, err := client.Enroll(ctx, "alice", "totp", url.Values{})
	require.NoError(t, err)
	require.Equal(t, "totp", enrollment.Provider)
	require.NotNil(t, enrollment.Provisioning)
	require.Contains(t, enrollment.Provisioning.URI, "otpauth://totp/")
	require.NotEmpty(t, enrollment.Provisioning.Secret)
	require.Len(t, enrollment.BackupCodes, 10)

	// Status now reports the provider
	status, err = client.Status(ctx, "alice")
	require.NoError(t, err)
	require.True(t, status.Enrolled)
	require.Equal(t, "totp", status.Provider.ID)

	// A valid code mints an attestation
	resp, err := client.Validate(ctx, "alice", currentCode(t, enrollment.Provisioning.Secret))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Attestation)

	// A wrong code is rejected
	_, err = client.Validate(ctx, "alice", "000000")
	assertAPIError(t, err, tfasdk.ErrorCodeInvalidToken)

	// Unenroll and verify everything is gone
	require.NoError(t, client.Unenroll(ctx, "alice"))

	status, err = client.Status(ctx, "alice")
	require.NoError(t, err)
	require.False(t, status.Enrolled)

	_, err = client.Validate(ctx, "alice", currentCode(t, enrollment.Provisioning.Secret))
	assertAPIError(t, err, tfasdk.ErrorCodeNotEnrolled)
}

func TestEnrollWithChosenSecret(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)
	ctx := t.Context()

	const secret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP" // 32-char base32

	enrollment, err := client.Enroll(ctx, "bob", "totp", url.Values{"secret": {secret}})
	require.NoError(t, err)
	require.Equal(t, secret, enrollment.Provisioning.Secret)

	_, err = client.Validate(ctx, "bob", currentCode(t, secret))
	require.NoError(t, err)
}

func TestEnrollRejectsBadSecret(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)

	_, err := client.Enroll(t.Context(), "carol", "totp", url.Values{"secret": {"TOOSHORT"}})
	assertAPIError(t, err, tfasdk.ErrorCodeInvalidRequest)
}

func TestEnrollUnknownProvider(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)

	_, err := client.Enroll(t.Context(), "carol", "sms", url.Values{})
	assertAPIError(t, err, tfasdk.ErrorCodeUnknownProvider)
}

func TestBackupCodesAreSingleUse(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)
	ctx := t.Context()

	enrollment, err := client.Enroll(ctx, "dave", "totp", url.Values{})
	require.NoError(t, err)
	require.Len(t, enrollment.BackupCodes, 10)

	code := enrollment.BackupCodes[0]

	resp, err := client.ValidateBackupCode(ctx, "dave", code)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Attestation)

	// Same code again is rejected
	_, err = client.ValidateBackupCode(ctx, "dave", code)
	assertAPIError(t, err, tfasdk.ErrorCodeInvalidToken)

	// Other codes still work
	_, err = client.ValidateBackupCode(ctx, "dave", enrollment.BackupCodes[1])
	require.NoError(t, err)
}

func TestSqliteDriverLifecycle(t *testing.T) {
	baseURL, cleanup := setupSqliteContainer(t)
	defer cleanup()

	client := tfasdk.NewClient(baseURL, adminToken)
	ctx := t.Context()

	enrollment, err := client.Enroll(ctx, "erin", "totp", url.Values{})
	require.NoError(t, err)

	_, err = client.Validate(ctx, "erin", currentCode(t, enrollment.Provisioning.Secret))
	require.NoError(t, err)

	require.NoError(t, client.Unenroll(ctx, "erin"))

	status, err := client.Status(ctx, "erin")
	require.NoError(t, err)
	require.False(t, status.Enrolled)
}
