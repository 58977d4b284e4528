package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/aussiebroadwan/twofactor/pkg/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	TOTPProviderID = "totp"

	totpPeriod = 30
	totpSkew   = 1 // accept the previous and next 30s window

	// qrEndpoint renders the otpauth URI as a scannable image for clients
	// that cannot display QR codes themselves.
	qrEndpoint = "https://quickchart.io/qr"
)

// TOTP implements time-based one-time codes. Validation accepts the code for
// the current 30-second window and one window either side.
type TOTP struct {
	// Issuer labels provisioning URIs so authenticator apps can tell
	// accounts apart.
	Issuer string

	// now is swappable for tests.
	now func() time.Time
}

func NewTOTP(issuer string) *TOTP {
	return &TOTP{Issuer: issuer, now: time.Now}
}

func (p *TOTP) Descriptor() domain.ProviderDescriptor {
	return domain.ProviderDescriptor{
		ID:          TOTPProviderID,
		DisplayName: "Time-based code",
		InfoURL:     "https://en.wikipedia.org/wiki/Time-based_one-time_password",
	}
}

// CheckAPIKey verifies the local code generator works. TOTP has no
// account-level key, so this is a self-check round trip with a throwaway
// secret.
func (p *TOTP) CheckAPIKey(ctx context.Context, settings *domain.Settings) error {
	secret, err := cryptox.GenerateSecret(cryptox.SecretSize80)
	if err != nil {
		return fmt.Errorf("code generator unavailable: %w", err)
	}

	now := p.now().UTC()
	code, err := totp.GenerateCodeCustom(secret, now, p.validateOpts())
	if err != nil {
		return fmt.Errorf("code generator unavailable: %w", err)
	}

	ok, err := totp.ValidateCustom(code, secret, now, p.validateOpts())
	if err != nil || !ok {
		return fmt.Errorf("code self-check failed")
	}
	return nil
}

func (p *TOTP) APIKeyFields(settings *domain.Settings) []domain.FormField {
	return nil
}

func (p *TOTP) ParseAPIKeyForm(form url.Values, settings *domain.Settings) error {
	return nil
}

func (p *TOTP) EnrollFields(rec domain.Record) []domain.FormField {
	value := ""
	if rec.ProviderID == TOTPProviderID {
		value = rec.ProviderUserID
	}
	return []domain.FormField{
		{
			Name:  "secret",
			Label: "Secret key",
			Type:  "text",
			Value: value,
			Hint:  "Base32 secret of 16, 26 or 32 characters. Leave blank to generate one.",
		},
	}
}

// ParseEnrollForm accepts an optional caller-chosen secret. A blank secret
// means one is generated at enrollment.
func (p *TOTP) ParseEnrollForm(form url.Values, rec domain.Record) (domain.EnrollmentDetails, error) {
	secret := strings.TrimSpace(form.Get("secret"))
	if secret == "" {
		return domain.EnrollmentDetails{}, nil
	}

	if _, err := cryptox.DecodeSecret(secret); err != nil {
		return domain.EnrollmentDetails{}, fmt.Errorf("secret: %w", err)
	}
	return domain.EnrollmentDetails{Secret: strings.ToUpper(secret)}, nil
}

func (p *TOTP) Enroll(ctx context.Context, details domain.EnrollmentDetails, rec *domain.Record, settings *domain.Settings) error {
	secret := details.Secret
	if secret == "" {
		var err error
		secret, err = cryptox.GenerateSecret(cryptox.SecretSize80)
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
	}

	rec.ProviderID = TOTPProviderID
	rec.ProviderUserID = secret
	rec.APIKey = ""
	return nil
}

func (p *TOTP) Validate(ctx context.Context, providerUserID, token, apiKey string) error {
	if _, err := cryptox.DecodeSecret(providerUserID); err != nil {
		return fmt.Errorf("stored secret is not usable: %w", err)
	}

	ok, err := totp.ValidateCustom(strings.TrimSpace(token), strings.ToUpper(providerUserID), p.now().UTC(), p.validateOpts())
	if err != nil {
		return fmt.Errorf("validate code: %w", err)
	}
	if !ok {
		return ErrTokenMismatch
	}
	return nil
}

// Provision builds the enrollment hand-off: the otpauth URI, a QR image URL
// for it, and the plain secret as a manual-entry fallback.
func (p *TOTP) Provision(username string, rec domain.Record) domain.Provisioning {
	label := rec.Username
	if label == "" {
		label = username
	}

	uri := fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(p.Issuer), url.PathEscape(label),
		rec.ProviderUserID, url.QueryEscape(p.Issuer))

	return domain.Provisioning{
		URI:        uri,
		QRImageURL: qrEndpoint + "?text=" + url.QueryEscape(uri),
		Secret:     rec.ProviderUserID,
	}
}

func (p *TOTP) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}
