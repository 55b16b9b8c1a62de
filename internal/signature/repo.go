package signature

import "context"

// Repo defines persistence operations for uploaded signatures.
type Repo interface {
	Create(ctx context.Context, sig Signature) error
	GetByID(ctx context.Context, userID, signatureID string) (Signature, error)
}
