// Package file implements the credential store on a flat text file, one
// colon-joined record per line in the fixed order
// username:providerId:providerUserId:apiKey. The format has no escaping, so
// writes reject field values containing the delimiter rather than corrupting
// the file. Backup code hashes live in a sidecar <file>.codes under the same
// lock.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store"
	"github.com/gofrs/flock"
)

const (
	delimiter  = ":"
	numFields  = 4
	lockSuffix = ".lock"
	codeSuffix = ".codes"

	// lockRetryDelay is how often a blocked writer re-attempts the flock.
	lockRetryDelay = 25 * time.Millisecond
)

// Store is the file-backed credential store. An empty path disables the
// store: reads report not-found and mutations fail with ErrNotConfigured.
type Store struct {
	path string

	// mu serializes writers within this process; fl serializes writers
	// across processes sharing the same file. Both are held for the whole
	// read-modify-write sequence and released on every exit path, so a
	// failing write cannot leak the lock. The lock is coarse (whole file):
	// concurrent saves for different users serialize, which is acceptable
	// for admin-driven enrollment volumes.
	mu sync.Mutex
	fl *flock.Flock
}

func NewStore(path string) *Store {
	s := &Store{path: path}
	if path != "" {
		s.fl = flock.New(path + lockSuffix)
	}
	return s
}

func (s *Store) Records() store.Records         { return &recordsRepo{s: s} }
func (s *Store) BackupCodes() store.BackupCodes { return &backupCodesRepo{s: s} }

func (s *Store) Close() error { return nil }

// Ping verifies the store directory is reachable. A disabled store is always
// "healthy" because every operation on it has well-defined behaviour.
func (s *Store) Ping(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	return nil
}

// withLock runs fn while holding the store-wide exclusive lock.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	if s.path == "" {
		return store.ErrNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("file store: acquire lock: %w", err)
	}
	if !locked {
		return errors.New("file store: lock not acquired")
	}
	defer func() { _ = s.fl.Unlock() }()

	return fn()
}

// readLines returns the non-empty lines of path. A missing file is an empty
// store, not an error.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file store: read %s: %w", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// writeLines atomically replaces path with the given lines via a same-dir
// temp file and rename, so readers never observe a half-written store.
func writeLines(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("file store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: replace %s: %w", path, err)
	}
	return nil
}

// validateFieldValues rejects values that would corrupt the unescaped
// colon-joined line format.
func validateFieldValues(values ...string) error {
	for _, v := range values {
		if strings.Contains(v, delimiter) {
			return fmt.Errorf("file store: field value %q contains reserved delimiter %q", v, delimiter)
		}
		if strings.ContainsAny(v, "\n\r") {
			return fmt.Errorf("file store: field value %q contains a line break", v)
		}
	}
	return nil
}

type recordsRepo struct {
	s *Store
}

func (r *recordsRepo) Get(ctx context.Context, username string) (domain.Record, error) {
	if r.s.path == "" {
		return domain.Record{}, store.ErrNotFound
	}

	lines, err := readLines(r.s.path)
	if err != nil {
		return domain.Record{}, err
	}

	for _, line := range lines {
		fields := strings.Split(line, delimiter)
		if len(fields) != numFields || fields[0] != username {
			continue
		}
		return domain.Record{
			Username:       fields[0],
			ProviderID:     fields[1],
			ProviderUserID: fields[2],
			APIKey:         fields[3],
		}, nil
	}
	return domain.Record{}, store.ErrNotFound
}

func (r *recordsRepo) Put(ctx context.Context, rec domain.Record) error {
	if rec.Username == "" || rec.ProviderID == "" || rec.ProviderUserID == "" {
		return store.ErrInvalidRecord
	}
	if err := validateFieldValues(rec.Username, rec.ProviderID, rec.ProviderUserID, rec.APIKey); err != nil {
		return err
	}

	joined := strings.Join([]string{rec.Username, rec.ProviderID, rec.ProviderUserID, rec.APIKey}, delimiter)

	return r.s.withLock(ctx, func() error {
		lines, err := readLines(r.s.path)
		if err != nil {
			return err
		}

		replaced := false
		for i, line := range lines {
			if strings.SplitN(line, delimiter, 2)[0] == rec.Username {
				lines[i] = joined
				replaced = true
				break
			}
		}
		if !replaced {
			lines = append(lines, joined)
		}

		return writeLines(r.s.path, lines)
	})
}

func (r *recordsRepo) Delete(ctx context.Context, username string) error {
	return r.s.withLock(ctx, func() error {
		lines, err := readLines(r.s.path)
		if err != nil {
			return err
		}

		kept := lines[:0]
		for _, line := range lines {
			if strings.SplitN(line, delimiter, 2)[0] != username {
				kept = append(kept, line)
			}
		}

		return writeLines(r.s.path, kept)
	})
}

type backupCodesRepo struct {
	s *Store
}

func (r *backupCodesRepo) codesPath() string { return r.s.path + codeSuffix }

func (r *backupCodesRepo) Replace(ctx context.Context, username string, hashes []string) error {
	if err := validateFieldValues(username); err != nil {
		return err
	}

	return r.s.withLock(ctx, func() error {
		lines, err := readLines(r.codesPath())
		if err != nil {
			return err
		}

		kept := lines[:0]
		for _, line := range lines {
			if strings.SplitN(line, delimiter, 2)[0] != username {
				kept = append(kept, line)
			}
		}
		for _, hash := range hashes {
			kept = append(kept, username+delimiter+hash)
		}

		return writeLines(r.codesPath(), kept)
	})
}

func (r *backupCodesRepo) List(ctx context.Context, username string) ([]string, error) {
	if r.s.path == "" {
		return nil, nil
	}

	lines, err := readLines(r.codesPath())
	if err != nil {
		return nil, err
	}

	var hashes []string
	for _, line := range lines {
		parts := strings.SplitN(line, delimiter, 2)
		if len(parts) == 2 && parts[0] == username {
			hashes = append(hashes, parts[1])
		}
	}
	return hashes, nil
}

func (r *backupCodesRepo) Remove(ctx context.Context, username, hash string) error {
	return r.s.withLock(ctx, func() error {
		lines, err := readLines(r.codesPath())
		if err != nil {
			return err
		}

		kept := lines[:0]
		for _, line := range lines {
			if line != username+delimiter+hash {
				kept = append(kept, line)
			}
		}

		return writeLines(r.codesPath(), kept)
	})
}

func (r *backupCodesRepo) DeleteAll(ctx context.Context, username string) error {
	return r.Replace(ctx, username, nil)
}
