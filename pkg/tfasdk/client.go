package tfasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/twofactor/pkg/jwtx"
)

// Client is a typed client for the two-factor service. AdminToken is sent as
// a bearer token on the guarded endpoints.
type Client struct {
	BaseURL    string
	AdminToken string
	HTTPClient *http.Client
}

func NewClient(baseURL, adminToken string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		AdminToken: adminToken,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Providers fetches the provider catalog.
func (c *Client) Providers(ctx context.Context) (ProvidersResponse, error) {
	var out ProvidersResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/providers", nil, "", &out)
	return out, err
}

// APIKeyForm fetches the credential form descriptors for a provider.
func (c *Client) APIKeyForm(ctx context.Context, providerID string) (FormResponse, error) {
	var out FormResponse
	path := fmt.Sprintf("/v1/providers/%s/forms/apikey", url.PathEscape(providerID))
	err := c.doJSON(ctx, http.MethodGet, path, nil, "", &out)
	return out, err
}

// CheckAPIKey submits credential fields for validation against the
// provider's remote service.
func (c *Client) CheckAPIKey(ctx context.Context, providerID string, form url.Values) error {
	path := fmt.Sprintf("/v1/providers/%s/apikey/check", url.PathEscape(providerID))
	return c.doJSON(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil)
}

// Status reports a user's enrollment state.
func (c *Client) Status(ctx context.Context, username string) (StatusResponse, error) {
	var out StatusResponse
	err := c.doJSON(ctx, http.MethodGet, c.userPath(username, ""), nil, "", &out)
	return out, err
}

// EnrollForm fetches the enrollment form for a provider, pre-filled for the
// user.
func (c *Client) EnrollForm(ctx context.Context, username, providerID string) (FormResponse, error) {
	var out FormResponse
	path := c.userPath(username, "/forms/enroll") + "?provider=" + url.QueryEscape(providerID)
	err := c.doJSON(ctx, http.MethodGet, path, nil, "", &out)
	return out, err
}

// Enroll submits an enrollment. The form carries the provider-specific
// fields; the provider id rides alongside them as "provider".
func (c *Client) Enroll(ctx context.Context, username, providerID string, form url.Values) (EnrollResponse, error) {
	merged := url.Values{}
	for k, vs := range form {
		merged[k] = vs
	}
	merged.Set("provider", providerID)

	var out EnrollResponse
	err := c.doJSON(ctx, http.MethodPost, c.userPath(username, "/enroll"),
		strings.NewReader(merged.Encode()), "application/x-www-form-urlencoded", &out)
	return out, err
}

// Validate submits a provider token for the user.
func (c *Client) Validate(ctx context.Context, username, token string) (ValidateResponse, error) {
	return c.validate(ctx, username, ValidateRequest{Token: token})
}

// ValidateBackupCode consumes one of the user's single-use backup codes.
func (c *Client) ValidateBackupCode(ctx context.Context, username, code string) (ValidateResponse, error) {
	return c.validate(ctx, username, ValidateRequest{BackupCode: code})
}

func (c *Client) validate(ctx context.Context, username string, req ValidateRequest) (ValidateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("encode request: %w", err)
	}

	var out ValidateResponse
	err = c.doJSON(ctx, http.MethodPost, c.userPath(username, "/validate"),
		bytes.NewReader(body), "application/json", &out)
	return out, err
}

// Unenroll removes the user's enrollment and backup codes.
func (c *Client) Unenroll(ctx context.Context, username string) error {
	return c.doJSON(ctx, http.MethodDelete, c.userPath(username, ""), nil, "", nil)
}

// JWKS fetches the attestation verification keys.
func (c *Client) JWKS(ctx context.Context) (jwtx.JWKS, error) {
	var out jwtx.JWKS
	err := c.doJSON(ctx, http.MethodGet, "/v1/jwks", nil, "", &out)
	return out, err
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", nil, "", &out)
	return out, err
}

// Readyz checks the readiness endpoint.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, "", &out)
	return out, err
}

func (c *Client) userPath(username, suffix string) string {
	return fmt.Sprintf("/v1/users/%s/twofactor%s", url.PathEscape(username), suffix)
}

// doJSON performs a request and decodes a 2xx JSON body into target. Error
// bodies come back as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.AdminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AdminToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return apiErr
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
