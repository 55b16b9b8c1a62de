package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // userID -> resumes
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Resume),
	}
}

// Create appends a resume for a user.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.UserID] = append(r.data[resume.UserID], resume)
	return nil
}

// GetByID returns a resume by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.data[userID] {
		if res.ID == resumeID {
			return res, nil
		}
	}
	return Resume{}, ErrNotFound
}

// GetCurrentByUser returns the newest resume for a user.
func (r *MemoryRepo) GetCurrentByUser(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.data[userID]
	if len(all) == 0 {
		return Resume{}, ErrNotFound
	}
	current := all[0]
	for _, res := range all[1:] {
		if res.CreatedAt.After(current.CreatedAt) {
			current = res
		}
	}
	return current, nil
}

// ListByUser returns resumes for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
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
	all := r.data[userID]
	r.mu.RUnlock()

	if len(all) == 0 || offset >= len(all) {
		return []Resume{}, nil
	}

	out := make([]Resume, len(all))
	copy(out, all)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// UpdateExtraction stores extracted text metadata for a resume, first write wins.
func (r *MemoryRepo) UpdateExtraction(ctx context.Context, userID, resumeID, extractedKey string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.data[userID]
	for i := range all {
		if all[i].ID == resumeID {
			if all[i].ExtractedTextKey == "" {
				all[i].ExtractedTextKey = extractedKey
				all[i].ExtractedAt = &extractedAt
				r.data[userID] = all
			}
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByUser removes all resumes for a user and reports how many were removed.
func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.data[userID]))
	delete(r.data, userID)
	return n, nil
}

// ClaimGuest reassigns a guest's resumes to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	claimed := r.data[guestUserID]
	if len(claimed) == 0 {
		return 0, nil
	}
	for i := range claimed {
		claimed[i].UserID = authedUserID
	}
	r.data[authedUserID] = append(r.data[authedUserID], claimed...)
	delete(r.data, guestUserID)
	return len(claimed), nil
}

var _ Repo = (*MemoryRepo)(nil)
