package domain

// ProviderDescriptor identifies a second-factor provider in the catalog.
// Descriptors are immutable and defined once per provider.
type ProviderDescriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	InfoURL     string `json:"info_url"`
}

// FormField is a structured descriptor for one input of a provider form.
// The core never renders HTML; the surrounding web layer turns these into
// whatever markup it likes.
type FormField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`            // "text", "password", "email", "tel"
	Value string `json:"value,omitempty"` // prefill, e.g. the configured API key
	Hint  string `json:"hint,omitempty"`  // human-readable format hint
}
