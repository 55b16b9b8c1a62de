package letters

import (
	"context"
	"time"
)

// Repo defines persistence operations for letters.
type Repo interface {
	Create(ctx context.Context, letter Letter) error
	GetByID(ctx context.Context, letterID string) (Letter, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Letter, error)
	SetProcessing(ctx context.Context, letterID string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, letterID, letterText, pdfKey string, completedAt time.Time) error
	MarkFailed(ctx context.Context, letterID, errorCode, errorMessage string, completedAt time.Time) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
