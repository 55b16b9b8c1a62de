package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	bodyFont     = "Arial"
	bodyFontSize = 11
	lineHeight   = 5 // mm

	blankLineGap     = 5  // mm
	signatureGap     = 15 // mm
	signatureWidthMM = 40
)

// LetterPDF renders the cover letter text as an A4 PDF. The optional
// signature image (PNG or JPEG bytes) is drawn 40mm wide under the text.
func LetterPDF(letterText string, signatureImage []byte) ([]byte, error) {
	if strings.TrimSpace(letterText) == "" {
		return nil, fmt.Errorf("letter text is empty")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont(bodyFont, "", bodyFontSize)

	// Core fonts are cp1252; map what we can and drop the rest.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(letterText, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(blankLineGap)
			continue
		}
		pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}

	pdf.Ln(signatureGap)

	if len(signatureImage) > 0 {
		if err := placeSignature(pdf, signatureImage); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func placeSignature(pdf *fpdf.Fpdf, img []byte) error {
	imageType, err := sniffImageType(img)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(img))
	if pdf.Err() {
		return fmt.Errorf("register signature image: %v", pdf.Error())
	}
	pdf.ImageOptions("signature", pdf.GetX(), pdf.GetY(), signatureWidthMM, 0, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("place signature image: %v", pdf.Error())
	}
	return nil
}

func sniffImageType(img []byte) (string, error) {
	switch {
	case len(img) >= 8 && bytes.HasPrefix(img, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG", nil
	case len(img) >= 3 && bytes.HasPrefix(img, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG", nil
	default:
		return "", fmt.Errorf("signature image must be PNG or JPEG")
	}
}
