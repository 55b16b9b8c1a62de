package letters

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

const letterColumns = `id, user_id, resume_id, job_description, job_url, sender_name, signature_id, temperature, provider, model, status, letter_text, pdf_storage_key, error_code, created_at, completed_at`

// Create inserts a new letter.
func (r *PGRepo) Create(ctx context.Context, letter Letter) error {
	const query = `
INSERT INTO letters (
    id,
    user_id,
    resume_id,
    job_description,
    job_url,
    sender_name,
    signature_id,
    temperature,
    provider,
    model,
    status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		letter.ID,
		letter.UserID,
		letter.ResumeID,
		letter.JobDescription,
		nullString(letter.JobURL),
		nullString(letter.SenderName),
		nullString(letter.SignatureID),
		letter.Temperature,
		letter.Provider,
		letter.Model,
		letter.Status,
		letter.CreatedAt,
	)
	return err
}

// GetByID returns a letter by ID.
func (r *PGRepo) GetByID(ctx context.Context, letterID string) (Letter, error) {
	const query = `
SELECT ` + letterColumns + `
FROM letters
WHERE id = $1 AND deleted_at IS NULL`
	letter, err := scanLetter(r.DB.QueryRowContext(ctx, query, letterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Letter{}, ErrNotFound
		}
		return Letter{}, err
	}
	return letter, nil
}

// ListByUser returns letters for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Letter, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + letterColumns + `
FROM letters
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Letter{}
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, letter)
	}
	return out, rows.Err()
}

// SetProcessing transitions the letter to processing.
func (r *PGRepo) SetProcessing(ctx context.Context, letterID string, startedAt time.Time) error {
	const query = `
UPDATE letters
SET status = $1
WHERE id = $2 AND deleted_at IS NULL`
	_ = startedAt // started_at is derivable from created_at; not persisted
	return r.exec(ctx, query, StatusProcessing, letterID)
}

// MarkCompleted records the generated text and PDF key.
func (r *PGRepo) MarkCompleted(ctx context.Context, letterID, letterText, pdfKey string, completedAt time.Time) error {
	const query = `
UPDATE letters
SET status = $1, letter_text = $2, pdf_storage_key = $3, error_code = NULL, completed_at = $4
WHERE id = $5 AND deleted_at IS NULL`
	return r.exec(ctx, query, StatusCompleted, letterText, pdfKey, completedAt, letterID)
}

// MarkFailed records a failure code.
func (r *PGRepo) MarkFailed(ctx context.Context, letterID, errorCode, errorMessage string, completedAt time.Time) error {
	const query = `
UPDATE letters
SET status = $1, error_code = $2, completed_at = $3
WHERE id = $4 AND deleted_at IS NULL`
	_ = errorMessage // messages stay in logs; only the code is persisted
	return r.exec(ctx, query, StatusFailed, errorCode, completedAt, letterID)
}

// DeleteByUser soft-deletes all letters for a user.
func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const query = `
UPDATE letters
SET deleted_at = now()
WHERE user_id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClaimGuest reassigns a guest's letters to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE letters
SET user_id = $1
WHERE user_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (Letter, error) {
	var letter Letter
	var jobURL, senderName, signatureID, letterText, pdfKey, errorCode sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&letter.ID,
		&letter.UserID,
		&letter.ResumeID,
		&letter.JobDescription,
		&jobURL,
		&senderName,
		&signatureID,
		&letter.Temperature,
		&letter.Provider,
		&letter.Model,
		&letter.Status,
		&letterText,
		&pdfKey,
		&errorCode,
		&letter.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return Letter{}, err
	}
	letter.JobURL = jobURL.String
	letter.SenderName = senderName.String
	letter.SignatureID = signatureID.String
	letter.LetterText = letterText.String
	letter.PDFStorageKey = pdfKey.String
	letter.ErrorCode = errorCode.String
	if completedAt.Valid {
		letter.CompletedAt = &completedAt.Time
	}
	return letter, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
