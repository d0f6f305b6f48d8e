// Package testutil provides synthetic map images for tests.
package testutil

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// Parchment is the background color used for synthetic map sheets.
var Parchment = color.RGBA{R: 240, G: 235, B: 220, A: 255}

// NewMapSheet returns a plain sheet of the given size with a thin frame
// along the border, resembling a scanned map page.
func NewMapSheet(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, Parchment)
		}
	}
	frame := color.RGBA{R: 60, G: 60, B: 60, A: 255}
	for x := 0; x < width; x++ {
		img.Set(x, 0, frame)
		img.Set(x, height-1, frame)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, frame)
		img.Set(width-1, y, frame)
	}
	return img
}

// FillRect paints a filled rectangle onto the sheet, clipped to the image.
func FillRect(img *image.RGBA, box utils.Box, c color.Color) {
	r := box.ToRect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// WritePNG writes the image into a temp directory owned by the test and
// returns its path.
func WritePNG(t *testing.T, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}
