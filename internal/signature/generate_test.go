package signature

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGeneratePNG(t *testing.T) {
	got, err := GeneratePNG("Jordan Lee")
	if err != nil {
		t.Fatalf("GeneratePNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != canvasWidth || bounds.Dy() != canvasHeight {
		t.Fatalf("bounds = %v, want %dx%d", bounds, canvasWidth, canvasHeight)
	}
}

func TestGeneratePNGRequiresName(t *testing.T) {
	if _, err := GeneratePNG("   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestGeneratePNGDeterministic(t *testing.T) {
	a, err := GeneratePNG("Jordan Lee")
	if err != nil {
		t.Fatalf("GeneratePNG: %v", err)
	}
	b, err := GeneratePNG("Jordan Lee")
	if err != nil {
		t.Fatalf("GeneratePNG: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical output for the same name")
	}
}

func TestStrokePointsStayOnCanvas(t *testing.T) {
	points := strokePoints("A very long name that would otherwise run off the canvas edge")
	for _, p := range points {
		if p.X < 0 || p.X >= canvasWidth || p.Y < 0 || p.Y >= canvasHeight {
			t.Fatalf("point %v outside canvas", p)
		}
	}
}
