package testutil

import (
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

func TestNewMapSheet(t *testing.T) {
	img := NewMapSheet(100, 80)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())

	// Interior is parchment, frame is dark.
	assert.Equal(t, Parchment, img.RGBAAt(50, 40))
	r, g, b, _ := img.At(0, 40).RGBA()
	assert.Less(t, r, uint32(0x8000))
	assert.Less(t, g, uint32(0x8000))
	assert.Less(t, b, uint32(0x8000))
}

func TestFillRect(t *testing.T) {
	img := NewMapSheet(100, 80)
	black := color.RGBA{A: 255}
	FillRect(img, utils.NewBox(10, 10, 20, 20), black)

	assert.Equal(t, black, img.RGBAAt(15, 15))
	assert.Equal(t, Parchment, img.RGBAAt(25, 25))
}

func TestWritePNG(t *testing.T) {
	path := WritePNG(t, NewMapSheet(10, 10), "sheet.png")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
