package signature

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new signature.
func (r *PGRepo) Create(ctx context.Context, sig Signature) error {
	const query = `
INSERT INTO signatures (id, user_id, storage_key, mime_type, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, sig.ID, sig.UserID, sig.StorageKey, sig.MimeType, sig.CreatedAt)
	return err
}

// GetByID returns a signature by ID scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, signatureID string) (Signature, error) {
	const query = `
SELECT id, user_id, storage_key, mime_type, created_at
FROM signatures
WHERE id = $1 AND user_id = $2`
	var sig Signature
	err := r.DB.QueryRowContext(ctx, query, signatureID, userID).Scan(
		&sig.ID,
		&sig.UserID,
		&sig.StorageKey,
		&sig.MimeType,
		&sig.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Signature{}, ErrNotFound
		}
		return Signature{}, err
	}
	return sig, nil
}

var _ Repo = (*PGRepo)(nil)
