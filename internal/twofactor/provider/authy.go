package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
)

const (
	AuthyProviderID = "authy"

	authyProductionBaseURL = "https://api.authy.com"
	authySandboxBaseURL    = "http://sandbox-api.authy.com"

	// Remote calls get one attempt with a fixed timeout. No retries.
	authyTimeout = 60 * time.Second
)

// Authy implements push/one-touch verification against the Authy REST API.
// Production traffic goes over TLS; test mode talks plain HTTP to the
// sandbox host.
type Authy struct {
	// BaseURL is derived from the test-mode flag at construction and is
	// overridable in tests.
	BaseURL string
	Client  *http.Client
}

func NewAuthy(testMode bool) *Authy {
	base := authyProductionBaseURL
	if testMode {
		base = authySandboxBaseURL
	}
	return &Authy{
		BaseURL: base,
		Client:  &http.Client{Timeout: authyTimeout},
	}
}

func (p *Authy) Descriptor() domain.ProviderDescriptor {
	return domain.ProviderDescriptor{
		ID:          AuthyProviderID,
		DisplayName: "Push verification",
		InfoURL:     "https://authy.com/",
	}
}

// CheckAPIKey asks the remote service for the application details tied to
// the key. A 401-class answer means the key itself is bad; anything else
// that fails is a generic remote error.
func (p *Authy) CheckAPIKey(ctx context.Context, settings *domain.Settings) error {
	endpoint := fmt.Sprintf("%s/protected/xml/app/details?api_key=%s",
		p.BaseURL, url.QueryEscape(settings.APIKey))

	body, status, err := p.get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("remote API key check failed: %w", err)
	}
	if status == http.StatusUnauthorized {
		return ErrInvalidAPIKey
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("remote API key check failed: %s", strings.TrimSpace(body))
	}
	return nil
}

func (p *Authy) APIKeyFields(settings *domain.Settings) []domain.FormField {
	return []domain.FormField{
		{
			Name:  "apikey",
			Label: "API key",
			Type:  "text",
			Value: settings.APIKey,
			Hint:  "Application API key issued by the push verification service.",
		},
	}
}

func (p *Authy) ParseAPIKeyForm(form url.Values, settings *domain.Settings) error {
	key, err := parseAPIKeyField(form.Get("apikey"))
	if err != nil {
		return err
	}
	settings.APIKey = key
	return nil
}

func (p *Authy) EnrollFields(rec domain.Record) []domain.FormField {
	return []domain.FormField{
		{Name: "email", Label: "Email address", Type: "text"},
		{Name: "country", Label: "Phone country code", Type: "text", Hint: "1-3 digits, with or without a leading +."},
		{Name: "phone", Label: "Phone number", Type: "text", Hint: "Digits, dashes and spaces only."},
	}
}

func (p *Authy) ParseEnrollForm(form url.Values, rec domain.Record) (domain.EnrollmentDetails, error) {
	email, err := parseEmailField(form.Get("email"))
	if err != nil {
		return domain.EnrollmentDetails{}, err
	}
	country, err := parseCountryCodeField(form.Get("country"))
	if err != nil {
		return domain.EnrollmentDetails{}, err
	}
	phone, err := parsePhoneField(form.Get("phone"))
	if err != nil {
		return domain.EnrollmentDetails{}, err
	}
	return domain.EnrollmentDetails{
		Email:       email,
		CountryCode: country,
		Phone:       phone,
	}, nil
}

// Enroll registers the user with the remote service and stores the assigned
// remote user id, plus the API key used, on the record. The key travels with
// the record so later validations keep working if the global key rotates.
func (p *Authy) Enroll(ctx context.Context, details domain.EnrollmentDetails, rec *domain.Record, settings *domain.Settings) error {
	endpoint := fmt.Sprintf("%s/protected/xml/users/new?api_key=%s",
		p.BaseURL, url.QueryEscape(settings.APIKey))

	form := url.Values{}
	form.Set("user[email]", details.Email)
	form.Set("user[country_code]", details.CountryCode)
	form.Set("user[cellphone]", details.Phone)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build enrollment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("remote enrollment failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read enrollment response: %w", err)
	}
	body := string(data)

	// The response is XML-ish; the id is pulled out by tag scan rather
	// than a strict parse so attribute noise does not break enrollment.
	id := extractTag(body, "id")
	if resp.StatusCode < 200 || resp.StatusCode > 299 || id == "" {
		return fmt.Errorf("remote enrollment failed: %s", strings.TrimSpace(body))
	}

	rec.ProviderID = AuthyProviderID
	rec.ProviderUserID = id
	rec.APIKey = settings.APIKey
	return nil
}

func (p *Authy) Validate(ctx context.Context, providerUserID, token, apiKey string) error {
	endpoint := fmt.Sprintf("%s/protected/xml/verify/%s/%s?api_key=%s&force=true",
		p.BaseURL, url.PathEscape(token), url.PathEscape(providerUserID),
		url.QueryEscape(apiKey))

	body, status, err := p.get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("remote verification failed: %w", err)
	}

	// The service answers 401 both for a bad key and a wrong token on this
	// endpoint; a submitted token that fails to verify is the far likelier
	// cause.
	if status == http.StatusUnauthorized {
		return ErrTokenRejected
	}

	if extractTag(body, "success") == "true" {
		return nil
	}
	if msg := extractTag(body, "message"); msg != "" {
		return fmt.Errorf("remote verification failed: %s", msg)
	}
	return fmt.Errorf("remote verification failed: %s", strings.TrimSpace(body))
}

func (p *Authy) get(ctx context.Context, endpoint string) (body string, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(data), resp.StatusCode, nil
}

// extractTag returns the text content of the first <tag ...>content</...>
// occurrence in body, or "" if the tag is absent. It tolerates attributes
// and surrounding whitespace.
func extractTag(body, tag string) string {
	open := strings.Index(body, "<"+tag)
	if open < 0 {
		return ""
	}
	rest := body[open:]
	start := strings.Index(rest, ">")
	if start < 0 {
		return ""
	}
	rest = rest[start+1:]
	end := strings.Index(rest, "<")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
