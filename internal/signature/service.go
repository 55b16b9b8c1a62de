package signature

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/shared/storage/object"
)

// Service contains business logic for signature images.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload stores a signature image for reuse in generated letters.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Signature, error) {
	if strings.TrimSpace(fileName) == "" {
		return Signature{}, ErrInvalidInput
	}

	storageKey, _, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Signature{}, err
	}
	if !supportedImage(mimeType) {
		return Signature{}, ErrUnsupportedImage
	}

	sig := Signature{
		ID:         uuid.NewString(),
		UserID:     userID,
		StorageKey: storageKey,
		MimeType:   mimeType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, sig); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// ImageBytes loads the stored signature image for a user.
func (s *Service) ImageBytes(ctx context.Context, userID, signatureID string) ([]byte, error) {
	sig, err := s.Repo.GetByID(ctx, userID, signatureID)
	if err != nil {
		return nil, err
	}
	body, err := s.Store.Open(ctx, sig.StorageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func supportedImage(mimeType string) bool {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	return clean == "image/png" || clean == "image/jpeg"
}
