package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "twofactor.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordsRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	rec := domain.Record{
		Username:       "alice",
		ProviderID:     "authy",
		ProviderUserID: "10543",
		APIKey:         "s3cret",
	}
	require.NoError(t, s.Records().Put(ctx, rec))

	got, err := s.Records().Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestRecordsGetUnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Records().Get(context.Background(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordsPutUpserts(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Records().Put(ctx, domain.Record{Username: "alice", ProviderID: "totp", ProviderUserID: "AAAABBBBCCCCDDDD"}))
	require.NoError(t, s.Records().Put(ctx, domain.Record{Username: "alice", ProviderID: "authy", ProviderUserID: "42", APIKey: "k"}))

	got, err := s.Records().Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "authy", got.ProviderID)
	require.Equal(t, "42", got.ProviderUserID)
}

func TestRecordsPutRejectsMissingProviderFields(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []domain.Record{
		{Username: "", ProviderID: "totp", ProviderUserID: "AAAABBBBCCCCDDDD"},
		{Username: "alice", ProviderID: "", ProviderUserID: "AAAABBBBCCCCDDDD"},
		{Username: "alice", ProviderID: "totp", ProviderUserID: ""},
	} {
		require.ErrorIs(t, s.Records().Put(ctx, rec), store.ErrInvalidRecord)
	}

	_, err := s.Records().Get(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecordsDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Records().Put(ctx, domain.Record{Username: "alice", ProviderID: "totp", ProviderUserID: "AAAABBBBCCCCDDDD"}))
	require.NoError(t, s.Records().Delete(ctx, "alice"))

	_, err := s.Records().Get(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)

	// deleting an absent user is not an error
	require.NoError(t, s.Records().Delete(ctx, "alice"))
}

func TestBackupCodesLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	hashes := []string{"hash-one", "hash-two", "hash-three"}
	require.NoError(t, s.BackupCodes().Replace(ctx, "alice", hashes))
	require.NoError(t, s.BackupCodes().Replace(ctx, "bob", []string{"hash-bob"}))

	got, err := s.BackupCodes().List(ctx, "alice")
	require.NoError(t, err)
	require.ElementsMatch(t, hashes, got)

	require.NoError(t, s.BackupCodes().Remove(ctx, "alice", "hash-two"))
	got, err = s.BackupCodes().List(ctx, "alice")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"hash-one", "hash-three"}, got)

	require.NoError(t, s.BackupCodes().DeleteAll(ctx, "alice"))
	got, err = s.BackupCodes().List(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, got)

	bobs, err := s.BackupCodes().List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
}

func TestBackupCodesReplaceDiscardsOld(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BackupCodes().Replace(ctx, "alice", []string{"old-one", "old-two"}))
	require.NoError(t, s.BackupCodes().Replace(ctx, "alice", []string{"new-one"}))

	got, err := s.BackupCodes().List(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"new-one"}, got)
}

func TestPing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
