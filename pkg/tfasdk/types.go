package tfasdk

// ProviderInfo describes one enrollable two-factor method.
type ProviderInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	InfoURL     string `json:"info_url,omitempty"`
}

// ProvidersResponse is the catalog returned by GET /v1/providers.
type ProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
}

// FormField describes one input of a provider form.
type FormField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

// FormResponse carries the field descriptors for a provider form.
type FormResponse struct {
	Provider string      `json:"provider"`
	Fields   []FormField `json:"fields"`
}

// StatusResponse reports a user's enrollment state.
type StatusResponse struct {
	Enrolled bool          `json:"enrolled"`
	Provider *ProviderInfo `json:"provider,omitempty"`
}

// Provisioning is the enrollment hand-off for providers that issue a local
// secret.
type Provisioning struct {
	URI        string `json:"uri"`
	QRImageURL string `json:"qr_image_url"`
	Secret     string `json:"secret"`
}

// EnrollResponse is returned once per enrollment. The backup codes are not
// recoverable afterwards.
type EnrollResponse struct {
	Provider     string        `json:"provider"`
	Provisioning *Provisioning `json:"provisioning,omitempty"`
	BackupCodes  []string      `json:"backup_codes"`
}

// ValidateRequest submits a provider token or a backup code. Exactly one of
// the two fields should be set.
type ValidateRequest struct {
	Token      string `json:"token,omitempty"`
	BackupCode string `json:"backup_code,omitempty"`
}

// ValidateResponse carries the attestation minted for a successful
// validation.
type ValidateResponse struct {
	Attestation string `json:"attestation"`
}

// HealthChecks reports the state of the service's dependencies.
type HealthChecks struct {
	Store  string `json:"store"`
	Signer string `json:"signer"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ErrorResponse is the error body shape returned by every endpoint.
type ErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}
