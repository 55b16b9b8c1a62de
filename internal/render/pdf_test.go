package render

import (
	"bytes"
	"testing"

	"coverletter-backend/internal/signature"
)

const sampleLetter = "January 2, 2026\n\nDear Hiring Manager,\n\nI am a strong fit for the role.\n\nSincerely,\nJordan Lee"

func TestLetterPDF(t *testing.T) {
	got, err := LetterPDF(sampleLetter, nil)
	if err != nil {
		t.Fatalf("LetterPDF: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF-")) {
		t.Fatalf("output missing PDF header")
	}
	if !bytes.Contains(got, []byte("%%EOF")) {
		t.Fatalf("output missing PDF trailer")
	}
}

func TestLetterPDFWithSignature(t *testing.T) {
	sig, err := signature.GeneratePNG("Jordan Lee")
	if err != nil {
		t.Fatalf("GeneratePNG: %v", err)
	}

	got, err := LetterPDF(sampleLetter, sig)
	if err != nil {
		t.Fatalf("LetterPDF: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF-")) {
		t.Fatalf("output missing PDF header")
	}
	plain, err := LetterPDF(sampleLetter, nil)
	if err != nil {
		t.Fatalf("LetterPDF without signature: %v", err)
	}
	if len(got) <= len(plain) {
		t.Fatalf("expected embedded signature to grow the PDF: %d <= %d", len(got), len(plain))
	}
}

func TestLetterPDFRejectsEmptyText(t *testing.T) {
	if _, err := LetterPDF("   \n ", nil); err == nil {
		t.Fatalf("expected error for empty letter text")
	}
}

func TestLetterPDFRejectsUnknownImage(t *testing.T) {
	if _, err := LetterPDF(sampleLetter, []byte("GIF89a not supported")); err == nil {
		t.Fatalf("expected error for non PNG/JPEG signature")
	}
}

func TestSniffImageType(t *testing.T) {
	if got, err := sniffImageType([]byte("\x89PNG\r\n\x1a\nrest")); err != nil || got != "PNG" {
		t.Fatalf("png: got %q, %v", got, err)
	}
	if got, err := sniffImageType([]byte{0xFF, 0xD8, 0xFF, 0xE0}); err != nil || got != "JPG" {
		t.Fatalf("jpeg: got %q, %v", got, err)
	}
	if _, err := sniffImageType([]byte("BM")); err == nil {
		t.Fatalf("expected error for bmp header")
	}
}
