package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
)

var (
	// ErrNotFound is returned when a username has no stored enrollment.
	ErrNotFound = errors.New("store: not found")

	// ErrNotConfigured is returned by mutating operations when no credential
	// store is configured. Reads report not-found instead so an unconfigured
	// store simply looks empty.
	ErrNotConfigured = errors.New("store: credential store not configured")

	// ErrInvalidRecord is returned by Put for a record missing its username
	// or provider fields. A stored record always carries a provider id and
	// a provider user id; enrollment is all-or-nothing.
	ErrInvalidRecord = errors.New("store: record is missing required fields")
)

// Store is the root data access interface for two-factor credentials.
// Concrete drivers (file, sqlite) implement this. Mutations must be safe
// against concurrent callers and concurrent processes sharing the same
// backing resource.
type Store interface {
	Records() Records
	BackupCodes() BackupCodes

	// Ping verifies the backing resource is usable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Records interface {
	// Get returns the enrollment record for a username, or ErrNotFound.
	Get(ctx context.Context, username string) (domain.Record, error)

	// Put creates or overwrites the record for rec.Username. At most one
	// record per username survives a Put. A record without a username,
	// provider id or provider user id is rejected with ErrInvalidRecord.
	Put(ctx context.Context, rec domain.Record) error

	// Delete removes the record for a username. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, username string) error
}

type BackupCodes interface {
	// Replace swaps the full set of backup code hashes for a username.
	Replace(ctx context.Context, username string, hashes []string) error

	// List returns all remaining code hashes for a username.
	List(ctx context.Context, username string) ([]string, error)

	// Remove deletes one consumed code hash.
	Remove(ctx context.Context, username, hash string) error

	// DeleteAll removes every code for a username.
	DeleteAll(ctx context.Context, username string) error
}
