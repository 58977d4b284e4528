package domain

// Record is a user's two-factor enrollment. At most one exists per username.
//
// ProviderUserID semantics depend on the provider: for totp it is the base32
// shared secret, for authy it is the identifier assigned by the remote
// service. APIKey is only populated by providers with an account-level key.
type Record struct {
	Username       string
	ProviderID     string
	ProviderUserID string
	APIKey         string
}

// Settings is the process-wide configuration read by providers. It is loaded
// by the app layer and passed by pointer into provider operations; the core
// never mutates it except to hold a freshly-confirmed API key, which the
// caller persists through its own configuration path.
type Settings struct {
	// APIKey is the account-level key for remote providers.
	APIKey string

	// TestMode selects the sandbox endpoint (plain HTTP) instead of the
	// production endpoint (TLS).
	TestMode bool

	// CredentialFile is the path to the file-backed credential store. Empty
	// disables the file store entirely.
	CredentialFile string
}

// EnrollmentDetails are the transient, validated inputs for a remote push
// enrollment. Produced by form parsing, consumed once by Enroll.
type EnrollmentDetails struct {
	// Secret carries a caller-chosen base32 secret for local code
	// providers. Empty means the provider generates one.
	Secret string

	Email       string
	CountryCode string // 1-3 digits, leading "+" already stripped
	Phone       string // digits, dashes and spaces only
}

// Enrollment is the result handed back to the caller after a successful
// enrollment: the record that was persisted plus provisioning material and
// single-use backup codes, both shown exactly once.
type Enrollment struct {
	Record       Record
	Provisioning Provisioning
	BackupCodes  []string
}

// Provisioning is the scannable artifact for local OTP enrollments: the
// otpauth URI, an external QR image reference rendering it, and the plain
// secret as a manual-entry fallback.
type Provisioning struct {
	URI        string
	QRImageURL string
	Secret     string
}
