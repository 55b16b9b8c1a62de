package signature

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Signature // userID -> signatures
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Signature)}
}

// Create stores a signature for a user.
func (r *MemoryRepo) Create(ctx context.Context, sig Signature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[sig.UserID] = append(r.data[sig.UserID], sig)
	return nil
}

// GetByID returns a signature by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, signatureID string) (Signature, error) {
	if err := ctx.Err(); err != nil {
		return Signature{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sig := range r.data[userID] {
		if sig.ID == signatureID {
			return sig, nil
		}
	}
	return Signature{}, ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
