// Package provider defines the two-factor provider capability interface and
// its implementations. Providers are a closed set resolved through the
// Registry, never through string-keyed dispatch into provider internals.
package provider

import (
	"context"
	"errors"
	"net/url"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
)

var (
	ErrUnknownProvider = errors.New("unknown two-factor provider")
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrTokenMismatch   = errors.New("token does not match any accepted code window")
	ErrTokenRejected   = errors.New("token rejected by remote verification")
)

// Provider is the capability surface every two-factor method implements.
//
// Render operations (Descriptor, APIKeyFields, EnrollFields) are pure. Parse
// operations fail fast on the first invalid field. Enroll mutates only the
// caller-supplied record and never touches the store. Validate is stateless
// and safe to call concurrently.
type Provider interface {
	Descriptor() domain.ProviderDescriptor

	// CheckAPIKey verifies the process-wide credentials the provider
	// depends on are usable. Providers without an account-level key verify
	// their local capability instead.
	CheckAPIKey(ctx context.Context, settings *domain.Settings) error

	// APIKeyFields describes the form fields for configuring the provider's
	// service credentials, pre-filled from the current settings.
	APIKeyFields(settings *domain.Settings) []domain.FormField

	// ParseAPIKeyForm validates submitted credential fields and writes the
	// accepted values into settings.
	ParseAPIKeyForm(form url.Values, settings *domain.Settings) error

	// EnrollFields describes the enrollment form for a user, pre-filled from
	// their existing record where it applies.
	EnrollFields(rec domain.Record) []domain.FormField

	// ParseEnrollForm validates submitted enrollment fields.
	ParseEnrollForm(form url.Values, rec domain.Record) (domain.EnrollmentDetails, error)

	// Enroll performs the provider-specific enrollment side effect and on
	// success sets ProviderUserID (and APIKey where the provider needs it
	// for later validation) on rec.
	Enroll(ctx context.Context, details domain.EnrollmentDetails, rec *domain.Record, settings *domain.Settings) error

	// Validate checks a submitted token against the enrolled identity.
	Validate(ctx context.Context, providerUserID, token, apiKey string) error
}

// Provisioner is implemented by providers that hand the user a provisioning
// artifact at enrollment, such as an otpauth URI and QR image.
type Provisioner interface {
	Provision(username string, rec domain.Record) domain.Provisioning
}
