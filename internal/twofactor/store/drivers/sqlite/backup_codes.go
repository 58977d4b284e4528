package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type backupCodesRepo struct {
	db *sql.DB
}

func (r *backupCodesRepo) Replace(ctx context.Context, username string, hashes []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM twofactor_backup_codes WHERE username = ?`, username); err != nil {
		return err
	}
	for _, hash := range hashes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO twofactor_backup_codes (username, code_hash)
			VALUES (?, ?)`, username, hash); err != nil {
			return fmt.Errorf("insert backup code: %w", err)
		}
	}

	return tx.Commit()
}

func (r *backupCodesRepo) List(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code_hash FROM twofactor_backup_codes
		WHERE username = ?
		ORDER BY created_at, code_hash`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, rows.Err()
}

func (r *backupCodesRepo) Remove(ctx context.Context, username, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM twofactor_backup_codes
		WHERE username = ? AND code_hash = ?`, username, hash)
	return err
}

func (r *backupCodesRepo) DeleteAll(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM twofactor_backup_codes WHERE username = ?`, username)
	return err
}
