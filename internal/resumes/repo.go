package resumes

import (
	"context"
	"time"
)

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	GetCurrentByUser(ctx context.Context, userID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	UpdateExtraction(ctx context.Context, userID, resumeID, extractedKey string, extractedAt time.Time) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
