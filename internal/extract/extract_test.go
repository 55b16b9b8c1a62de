package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jordan Lee</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior Backend Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractTextFromBytesDocx(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	got, err := ExtractTextFromBytes(context.Background(), data, mimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(got, "Jordan Lee") || !strings.Contains(got, "Senior Backend Engineer") {
		t.Fatalf("missing text: %q", got)
	}
	if !strings.Contains(got, "Jordan Lee\n") {
		t.Fatalf("expected paragraph break after name: %q", got)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	if _, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "resume.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestExtractTextFromBytes_OctetStreamDocx(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)

	if _, err := ExtractTextFromBytes(context.Background(), data, "application/octet-stream", "resume.docx"); err != nil {
		t.Fatalf("expected docx to extract from octet-stream mime, got error: %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	docx := buildDocx(t, sampleDocumentXML)
	tests := []struct {
		name     string
		mimeType string
		fileName string
		data     []byte
		want     string
	}{
		{name: "pdf passthrough", mimeType: "application/pdf", fileName: "resume.pdf", want: "application/pdf"},
		{name: "octet stream pdf magic", mimeType: "application/octet-stream", fileName: "resume.bin", data: []byte("%PDF-1.7 body"), want: "application/pdf"},
		{name: "octet stream pdf ext", mimeType: "application/octet-stream", fileName: "resume.pdf", data: []byte("x"), want: "application/pdf"},
		{name: "octet stream docx payload", mimeType: "application/octet-stream", fileName: "resume.docx", data: docx, want: mimeDOCX},
		{name: "octet stream unknown", mimeType: "application/octet-stream", fileName: "resume.bin", data: []byte("x"), want: "application/octet-stream"},
		{name: "zip docx ext only", mimeType: "application/zip", fileName: "resume.docx", want: mimeDOCX},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeMimeType(tt.mimeType, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("normalizeMimeType(%q, %q) = %q, want %q", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		want     bool
	}{
		{name: "pdf", mimeType: "application/pdf", fileName: "resume.pdf", want: true},
		{name: "docx", mimeType: mimeDOCX, fileName: "resume.docx", want: true},
		{name: "zip with docx ext", mimeType: "application/zip", fileName: "resume.docx", want: true},
		{name: "octet stream pdf ext", mimeType: "application/octet-stream", fileName: "resume.pdf", want: true},
		{name: "plain text", mimeType: "text/plain", fileName: "resume.txt", want: false},
		{name: "zip without ext", mimeType: "application/zip", fileName: "archive.zip", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Supported(tt.mimeType, tt.fileName); got != tt.want {
				t.Fatalf("Supported(%q, %q) = %v, want %v", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}
