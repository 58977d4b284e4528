package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/store"
)

type recordsRepo struct {
	db *sql.DB
}

func (r *recordsRepo) Get(ctx context.Context, username string) (domain.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, provider_id, provider_user_id, api_key
		FROM twofactor_records
		WHERE username = ?`, username)

	var rec domain.Record
	err := row.Scan(&rec.Username, &rec.ProviderID, &rec.ProviderUserID, &rec.APIKey)
	if err != nil {
		return domain.Record{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *recordsRepo) Put(ctx context.Context, rec domain.Record) error {
	if rec.Username == "" || rec.ProviderID == "" || rec.ProviderUserID == "" {
		return store.ErrInvalidRecord
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO twofactor_records (username, provider_id, provider_user_id, api_key)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			provider_id = excluded.provider_id,
			provider_user_id = excluded.provider_user_id,
			api_key = excluded.api_key,
			updated_at = CURRENT_TIMESTAMP`,
		rec.Username, rec.ProviderID, rec.ProviderUserID, rec.APIKey)
	return err
}

func (r *recordsRepo) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM twofactor_records WHERE username = ?`, username)
	return err
}
