package signature

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"coverletter-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store: local.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
	}
}

func TestUploadAndImageBytesRoundTrip(t *testing.T) {
	svc := newTestService(t)

	img, err := GeneratePNG("Jordan Lee")
	if err != nil {
		t.Fatalf("GeneratePNG: %v", err)
	}

	sig, err := svc.Upload(context.Background(), "user-1", "signature.png", bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if sig.MimeType != "image/png" {
		t.Fatalf("mime type = %q", sig.MimeType)
	}

	got, err := svc.ImageBytes(context.Background(), "user-1", sig.ID)
	if err != nil {
		t.Fatalf("ImageBytes: %v", err)
	}
	if !bytes.Equal(got, img) {
		t.Fatalf("stored image differs from upload")
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "user-1", "signature.png", bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("got %v, want ErrUnsupportedImage", err)
	}
}

func TestImageBytesScopedToOwner(t *testing.T) {
	svc := newTestService(t)

	img, err := GeneratePNG("Jordan Lee")
	if err != nil {
		t.Fatalf("GeneratePNG: %v", err)
	}
	sig, err := svc.Upload(context.Background(), "user-1", "signature.png", bytes.NewReader(img))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.ImageBytes(context.Background(), "user-2", sig.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
