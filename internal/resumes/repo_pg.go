package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text_key, extracted_at, created_at`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	provider := resume.StorageProvider
	if provider == "" {
		provider = "local"
	}

	var storageKey sql.NullString
	if resume.StorageKey != "" {
		storageKey = sql.NullString{String: resume.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.FileName,
		resume.MimeType,
		resume.SizeBytes,
		provider,
		storageKey,
		resume.CreatedAt,
	)
	return err
}

// GetByID returns a resume by ID scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, resumeID, userID))
}

// GetCurrentByUser returns the latest resume for a user.
func (r *PGRepo) GetCurrentByUser(ctx context.Context, userID string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

// ListByUser returns resumes for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// UpdateExtraction records the derived extracted-text object, first write wins.
func (r *PGRepo) UpdateExtraction(ctx context.Context, userID, resumeID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE resumes
SET extracted_text_key = $1, extracted_at = $2
WHERE id = $3 AND user_id = $4 AND extracted_text_key IS NULL`
	res, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, resumeID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either already extracted or unknown resume; verify existence.
		if _, err := r.GetByID(ctx, userID, resumeID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteByUser soft-deletes all resumes for a user.
func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const query = `
UPDATE resumes
SET deleted_at = now()
WHERE user_id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClaimGuest reassigns a guest's resumes to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE resumes
SET user_id = $1
WHERE user_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Resume, error) {
	resume, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var provider sql.NullString
	var storageKey sql.NullString
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.FileName,
		&resume.MimeType,
		&resume.SizeBytes,
		&provider,
		&storageKey,
		&extractedKey,
		&extractedAt,
		&resume.CreatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if provider.Valid {
		resume.StorageProvider = provider.String
	}
	if storageKey.Valid {
		resume.StorageKey = storageKey.String
	}
	if extractedKey.Valid {
		resume.ExtractedTextKey = extractedKey.String
	}
	if extractedAt.Valid {
		resume.ExtractedAt = &extractedAt.Time
	}
	return resume, nil
}

var _ Repo = (*PGRepo)(nil)
