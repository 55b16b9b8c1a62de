package signature

import (
	"errors"
	"time"
)

// Signature is an uploaded signature image owned by a user.
type Signature struct {
	ID         string
	UserID     string
	StorageKey string
	MimeType   string
	CreatedAt  time.Time
}

var (
	// ErrNotFound indicates the signature does not exist for the user.
	ErrNotFound = errors.New("signature not found")
	// ErrInvalidInput indicates a validation failure on caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedImage indicates the upload is not a PNG or JPEG.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
