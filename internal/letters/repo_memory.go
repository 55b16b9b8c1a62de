package letters

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Letter // letterID -> letter
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Letter)}
}

// Create stores a new letter.
func (r *MemoryRepo) Create(ctx context.Context, letter Letter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[letter.ID] = letter
	return nil
}

// GetByID returns a letter by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, letterID string) (Letter, error) {
	if err := ctx.Err(); err != nil {
		return Letter{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	letter, ok := r.data[letterID]
	if !ok {
		return Letter{}, ErrNotFound
	}
	return letter, nil
}

// ListByUser returns letters for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Letter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Letter, 0)
	for _, letter := range r.data {
		if letter.UserID == userID {
			all = append(all, letter)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if len(all) == 0 || offset >= len(all) {
		return []Letter{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// SetProcessing transitions the letter to processing.
func (r *MemoryRepo) SetProcessing(ctx context.Context, letterID string, startedAt time.Time) error {
	return r.update(ctx, letterID, func(letter *Letter) {
		letter.Status = StatusProcessing
		letter.StartedAt = &startedAt
	})
}

// MarkCompleted records the generated text and PDF key.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, letterID, letterText, pdfKey string, completedAt time.Time) error {
	return r.update(ctx, letterID, func(letter *Letter) {
		letter.Status = StatusCompleted
		letter.LetterText = letterText
		letter.PDFStorageKey = pdfKey
		letter.CompletedAt = &completedAt
		letter.ErrorCode = ""
		letter.ErrorMessage = ""
	})
}

// MarkFailed records a failure code and message.
func (r *MemoryRepo) MarkFailed(ctx context.Context, letterID, errorCode, errorMessage string, completedAt time.Time) error {
	return r.update(ctx, letterID, func(letter *Letter) {
		letter.Status = StatusFailed
		letter.ErrorCode = errorCode
		letter.ErrorMessage = errorMessage
		letter.CompletedAt = &completedAt
	})
}

// DeleteByUser removes all letters for a user.
func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, letter := range r.data {
		if letter.UserID == userID {
			delete(r.data, id)
			n++
		}
	}
	return n, nil
}

// ClaimGuest reassigns a guest's letters to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for id, letter := range r.data {
		if letter.UserID == guestUserID {
			letter.UserID = authedUserID
			r.data[id] = letter
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) update(ctx context.Context, letterID string, fn func(*Letter)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	letter, ok := r.data[letterID]
	if !ok {
		return ErrNotFound
	}
	fn(&letter)
	r.data[letterID] = letter
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
