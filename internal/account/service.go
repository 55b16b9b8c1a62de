package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/resumes"
)

type Service struct {
	ResumeRepo resumes.Repo
	LetterRepo letters.Repo
}

type ClaimResult struct {
	MigratedResumes int `json:"migratedResumes"`
	MigratedLetters int `json:"migratedLetters"`
}

type DeleteResult struct {
	DeletedResumes int64 `json:"deletedResumes"`
	DeletedLetters int64 `json:"deletedLetters"`
}

func NewService(resumeRepo resumes.Repo, letterRepo letters.Repo) *Service {
	return &Service{ResumeRepo: resumeRepo, LetterRepo: letterRepo}
}

// ClaimGuest moves resumes and letters created under a guest identity to
// the authenticated user.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if resumePG, ok := s.ResumeRepo.(*resumes.PGRepo); ok && resumePG != nil && resumePG.DB != nil {
		if letterPG, ok := s.LetterRepo.(*letters.PGRepo); ok && letterPG != nil && letterPG.DB != nil {
			return claimWithTx(ctx, resumePG.DB, guestUserID, authedUserID)
		}
	}

	resumeCount, err := claimResumes(ctx, s.ResumeRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	letterCount, err := claimLetters(ctx, s.LetterRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedResumes: resumeCount, MigratedLetters: letterCount}, nil
}

// DeleteData removes all resumes and letters for a user.
func (s *Service) DeleteData(ctx context.Context, userID string) (DeleteResult, error) {
	if strings.TrimSpace(userID) == "" {
		return DeleteResult{}, errors.New("userID is required")
	}
	resumeCount, err := s.ResumeRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return DeleteResult{}, err
	}
	letterCount, err := s.LetterRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{DeletedResumes: resumeCount, DeletedLetters: letterCount}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	resumeRes, err := tx.ExecContext(ctx, `UPDATE resumes SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	resumeCount, _ := resumeRes.RowsAffected()

	letterRes, err := tx.ExecContext(ctx, `UPDATE letters SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	letterCount, _ := letterRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedResumes: int(resumeCount), MigratedLetters: int(letterCount)}, nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claimResumes(ctx context.Context, repo resumes.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("resumes repo does not support claim")
}

func claimLetters(ctx context.Context, repo letters.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("letters repo does not support claim")
}
