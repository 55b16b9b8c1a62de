package signature

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 400
	canvasHeight = 200
	strokeWidth  = 3

	xOffset   = 50
	yBaseline = 100
	xStep     = 20
)

// GeneratePNG draws a signature-like stroke for the given name and returns
// it as PNG bytes. The stroke is a polyline with a sine-wave vertical offset
// per rune, with the name printed beneath it.
func GeneratePNG(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := color.RGBA{A: 255}

	points := strokePoints(name)
	for i := 1; i < len(points); i++ {
		drawSegment(img, points[i-1], points[i], black)
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(black),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(xOffset),
			Y: fixed.I(yBaseline + 30),
		},
	}
	drawer.DrawString(name)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func strokePoints(name string) []image.Point {
	runes := []rune(name)
	points := make([]image.Point, 0, len(runes))
	for i := range runes {
		x := xOffset + i*xStep
		if x >= canvasWidth-xOffset/2 {
			break
		}
		y := yBaseline + int(math.Round(math.Sin(float64(i)*0.5)*10))
		points = append(points, image.Point{X: x, Y: y})
	}
	return points
}

// drawSegment rasterizes a thick line segment between two points.
func drawSegment(img *image.RGBA, a, b image.Point, c color.Color) {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		setThick(img, a.X, a.Y, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + int(math.Round(t*float64(b.X-a.X)))
		y := a.Y + int(math.Round(t*float64(b.Y-a.Y)))
		setThick(img, x, y, c)
	}
}

func setThick(img *image.RGBA, x, y int, c color.Color) {
	half := strokeWidth / 2
	for ox := -half; ox <= half; ox++ {
		for oy := -half; oy <= half; oy++ {
			img.Set(x+ox, y+oy, c)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
