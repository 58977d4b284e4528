// Package service orchestrates enrollment, validation and unenrollment
// across the provider registry and the credential store.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/provider"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store"
	"github.com/aussiebroadwan/twofactor/pkg/cryptox"
	"github.com/aussiebroadwan/twofactor/pkg/jwtx"
)

const backupCodeCount = 10 // single-use codes issued per enrollment

var (
	ErrNotEnrolled       = errors.New("user is not enrolled in two-factor authentication")
	ErrBackupCodeInvalid = errors.New("backup code does not match any issued code")
)

// amrBackupCode marks attestations minted from a backup code rather than a
// live provider token.
const amrBackupCode = "backup"

type TwoFactorService struct {
	Registry *provider.Registry
	Store    store.Store
	Attestor *jwtx.Attestor

	// Settings is the process-wide provider configuration. Handlers run
	// concurrently, so every access goes through settingsMu; CheckAPIKey
	// is the one writer.
	Settings *domain.Settings

	settingsMu sync.RWMutex
}

// snapshotSettings returns a copy of the current settings. Providers only
// ever see the copy, never the shared struct.
func (s *TwoFactorService) snapshotSettings() domain.Settings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return *s.Settings
}

// Providers returns the catalog of enrollable providers.
func (s *TwoFactorService) Providers() []domain.ProviderDescriptor {
	return s.Registry.List()
}

// Status reports the user's current enrollment. ErrNotEnrolled means the
// user has no record.
func (s *TwoFactorService) Status(ctx context.Context, username string) (domain.Record, domain.ProviderDescriptor, error) {
	rec, err := s.Store.Records().Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Record{}, domain.ProviderDescriptor{}, ErrNotEnrolled
		}
		return domain.Record{}, domain.ProviderDescriptor{}, fmt.Errorf("load enrollment: %w", err)
	}

	p, err := s.Registry.Resolve(rec.ProviderID)
	if err != nil {
		return domain.Record{}, domain.ProviderDescriptor{}, fmt.Errorf("enrollment references %q: %w", rec.ProviderID, err)
	}
	return rec, p.Descriptor(), nil
}

// APIKeyFields returns the credential form for a provider, pre-filled from
// the current settings.
func (s *TwoFactorService) APIKeyFields(providerID string) ([]domain.FormField, error) {
	p, err := s.Registry.Resolve(providerID)
	if err != nil {
		return nil, err
	}
	settings := s.snapshotSettings()
	return p.APIKeyFields(&settings), nil
}

// EnrollFields returns the enrollment form for a provider, pre-filled from
// the user's existing record where one exists.
func (s *TwoFactorService) EnrollFields(ctx context.Context, username, providerID string) ([]domain.FormField, error) {
	p, err := s.Registry.Resolve(providerID)
	if err != nil {
		return nil, err
	}

	rec, err := s.Store.Records().Get(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	rec.Username = username
	return p.EnrollFields(rec), nil
}

// CheckAPIKey parses submitted credential fields and verifies them against
// the provider's remote service. The key is persisted onto the settings only
// after the check passes.
func (s *TwoFactorService) CheckAPIKey(ctx context.Context, providerID string, form url.Values) error {
	p, err := s.Registry.Resolve(providerID)
	if err != nil {
		return err
	}

	candidate := s.snapshotSettings()
	if err := p.ParseAPIKeyForm(form, &candidate); err != nil {
		return err
	}
	if err := p.CheckAPIKey(ctx, &candidate); err != nil {
		return err
	}

	s.settingsMu.Lock()
	s.Settings.APIKey = candidate.APIKey
	s.settingsMu.Unlock()
	return nil
}

// Enroll runs the provider-specific enrollment and persists the resulting
// record. Re-enrolling overwrites the previous record and reissues backup
// codes. The returned Enrollment carries the plain backup codes; they are
// not recoverable afterwards.
func (s *TwoFactorService) Enroll(ctx context.Context, username, providerID string, form url.Values) (domain.Enrollment, error) {
	p, err := s.Registry.Resolve(providerID)
	if err != nil {
		return domain.Enrollment{}, err
	}

	existing, err := s.Store.Records().Get(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Enrollment{}, fmt.Errorf("load enrollment: %w", err)
	}
	existing.Username = username

	details, err := p.ParseEnrollForm(form, existing)
	if err != nil {
		return domain.Enrollment{}, err
	}

	rec := domain.Record{Username: username}
	settings := s.snapshotSettings()
	if err := p.Enroll(ctx, details, &rec, &settings); err != nil {
		return domain.Enrollment{}, err
	}

	if err := s.Store.Records().Put(ctx, rec); err != nil {
		return domain.Enrollment{}, fmt.Errorf("persist enrollment: %w", err)
	}

	codes, err := s.issueBackupCodes(ctx, username)
	if err != nil {
		// a record must never survive without its backup codes
		_ = s.Store.Records().Delete(ctx, username)
		return domain.Enrollment{}, err
	}

	enrollment := domain.Enrollment{
		Record:      rec,
		BackupCodes: codes,
	}
	if prov, ok := p.(provider.Provisioner); ok {
		enrollment.Provisioning = prov.Provision(username, rec)
	}
	return enrollment, nil
}

// Validate checks a submitted token against the user's enrolled provider
// and, on success, mints a short-lived attestation naming the provider.
func (s *TwoFactorService) Validate(ctx context.Context, username, token string) (string, error) {
	rec, err := s.Store.Records().Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotEnrolled
		}
		return "", fmt.Errorf("load enrollment: %w", err)
	}

	p, err := s.Registry.Resolve(rec.ProviderID)
	if err != nil {
		return "", fmt.Errorf("enrollment references %q: %w", rec.ProviderID, err)
	}

	if err := p.Validate(ctx, rec.ProviderUserID, token, rec.APIKey); err != nil {
		return "", err
	}

	return s.mint(username, rec.ProviderID)
}

// ValidateBackupCode consumes a single-use backup code. A code that matches
// is removed before the attestation is returned, so it can never be replayed.
func (s *TwoFactorService) ValidateBackupCode(ctx context.Context, username, code string) (string, error) {
	if _, err := s.Store.Records().Get(ctx, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotEnrolled
		}
		return "", fmt.Errorf("load enrollment: %w", err)
	}

	hashes, err := s.Store.BackupCodes().List(ctx, username)
	if err != nil {
		return "", fmt.Errorf("load backup codes: %w", err)
	}

	for _, hash := range hashes {
		if err := cryptox.VerifyBackupCode(code, hash); err != nil {
			continue
		}
		if err := s.Store.BackupCodes().Remove(ctx, username, hash); err != nil {
			return "", fmt.Errorf("consume backup code: %w", err)
		}
		return s.mint(username, amrBackupCode)
	}
	return "", ErrBackupCodeInvalid
}

// Unenroll removes the user's record and backup codes. Unenrolling a user
// with no record is not an error.
func (s *TwoFactorService) Unenroll(ctx context.Context, username string) error {
	if err := s.Store.Records().Delete(ctx, username); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if err := s.Store.BackupCodes().DeleteAll(ctx, username); err != nil {
		return fmt.Errorf("delete backup codes: %w", err)
	}
	return nil
}

func (s *TwoFactorService) issueBackupCodes(ctx context.Context, username string) ([]string, error) {
	codes := make([]string, backupCodeCount)
	hashes := make([]string, backupCodeCount)
	for i := range backupCodeCount {
		code, err := cryptox.GenerateBackupCode()
		if err != nil {
			return nil, fmt.Errorf("generate backup code: %w", err)
		}
		hash, err := cryptox.HashBackupCode(code)
		if err != nil {
			return nil, fmt.Errorf("hash backup code: %w", err)
		}
		codes[i] = code
		hashes[i] = hash
	}

	if err := s.Store.BackupCodes().Replace(ctx, username, hashes); err != nil {
		return nil, fmt.Errorf("persist backup codes: %w", err)
	}
	return codes, nil
}

func (s *TwoFactorService) mint(username, method string) (string, error) {
	token, err := s.Attestor.Mint(username, method)
	if err != nil {
		return "", fmt.Errorf("mint attestation: %w", err)
	}
	return token, nil
}
