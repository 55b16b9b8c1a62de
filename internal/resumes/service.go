package resumes

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/shared/telemetry"
)

// Service contains business logic for resumes.
type Service struct {
	Store           object.ObjectStore
	Repo            Repo
	StorageProvider string
}

// Upload saves the file to object storage, records the resume, and extracts
// its text eagerly so letter generation does not have to.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Resume, error) {
	if strings.TrimSpace(fileName) == "" {
		return Resume{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Resume{}, err
	}

	if !extract.Supported(mimeType, fileName) {
		return Resume{}, ErrUnsupportedType
	}

	resume := Resume{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}

	// Best-effort eager extraction; a missing extracted key is recovered at
	// generation time.
	if text, err := extract.ExtractText(ctx, s.Store, storageKey, mimeType, fileName); err != nil {
		telemetry.Error("resume.extract_failed", map[string]any{
			"resume_id": resume.ID,
			"error":     err.Error(),
		})
	} else if strings.TrimSpace(text) != "" {
		extractedAt := time.Now().UTC()
		extractedKey := storageKey + ".extracted.txt"
		if err := s.Repo.UpdateExtraction(ctx, userID, resume.ID, extractedKey, extractedAt); err == nil {
			resume.ExtractedTextKey = extractedKey
			resume.ExtractedAt = &extractedAt
		}
	}

	return resume, nil
}

// Current returns the newest resume for a user.
func (s *Service) Current(ctx context.Context, userID string) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// Get returns a resume by ID for a user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if userID == "" || resumeID == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns resumes for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
