package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocessForOCRNilImage(t *testing.T) {
	require.Nil(t, PreprocessForOCR(nil, DefaultPreprocessConfig()))
}

func TestPreprocessForOCRPreservesDimensions(t *testing.T) {
	img := solidImage(64, 48, color.RGBA{200, 200, 200, 255})
	out := PreprocessForOCR(img, DefaultPreprocessConfig())
	require.NotNil(t, out)
	require.Equal(t, 64, out.Bounds().Dx())
	require.Equal(t, 48, out.Bounds().Dy())
}

func TestAdaptiveThresholdSeparatesDarkText(t *testing.T) {
	// Light background with a dark block in the middle.
	img := solidImage(40, 40, color.RGBA{230, 230, 230, 255})
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			img.Set(x, y, color.RGBA{10, 10, 10, 255})
		}
	}
	cfg := PreprocessConfig{Grayscale: true, AdaptiveThreshold: true, ThresholdWindow: 15, ThresholdBias: 10}
	out := PreprocessForOCR(img, cfg)

	r, _, _, _ := out.At(20, 20).RGBA()
	require.Zero(t, r>>8, "dark block should binarize to black")
	r, _, _, _ = out.At(2, 2).RGBA()
	require.EqualValues(t, 255, r>>8, "background should binarize to white")
}

func TestResizeImageMultipleOf32(t *testing.T) {
	img := solidImage(1000, 700, color.White)
	out, err := ResizeImage(img, DefaultImageConstraints())
	require.NoError(t, err)
	require.Zero(t, out.Bounds().Dx()%32)
	require.Zero(t, out.Bounds().Dy()%32)
}

func TestNormalizeImageShape(t *testing.T) {
	img := solidImage(32, 32, color.RGBA{255, 0, 0, 255})
	data, w, h, err := NormalizeImage(img)
	require.NoError(t, err)
	require.Equal(t, 32, w)
	require.Equal(t, 32, h)
	require.Len(t, data, 3*32*32)
	// R plane first in NCHW ordering
	require.InDelta(t, 1.0, float64(data[0]), 1e-3)
	require.InDelta(t, 0.0, float64(data[32*32]), 1e-3)
}
