package utils

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PreprocessConfig controls the OCR preprocessing chain.
type PreprocessConfig struct {
	Grayscale         bool
	MedianRadius      float64 // 0 disables denoising
	AdaptiveThreshold bool
	ThresholdWindow   int     // window size for the local mean, odd
	ThresholdBias     float64 // subtracted from the local mean, 0-255 scale
}

// DefaultPreprocessConfig returns the preprocessing defaults for map imagery.
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		Grayscale:         true,
		MedianRadius:      1,
		AdaptiveThreshold: true,
		ThresholdWindow:   15,
		ThresholdBias:     10,
	}
}

// PreprocessForOCR applies grayscale conversion, median denoising and adaptive
// mean thresholding to improve text recognition on scanned map imagery.
// The input image is never modified.
func PreprocessForOCR(img image.Image, cfg PreprocessConfig) image.Image {
	if img == nil {
		return nil
	}
	working := img
	if cfg.Grayscale {
		working = imaging.Grayscale(working)
	}
	if cfg.MedianRadius > 0 {
		working = effect.Median(working, cfg.MedianRadius)
	}
	if cfg.AdaptiveThreshold {
		working = adaptiveMeanThreshold(working, cfg.ThresholdWindow, cfg.ThresholdBias)
	}
	return working
}

// adaptiveMeanThreshold binarizes an image against the mean of a local window,
// computed via a summed-area table so the window size does not affect cost.
func adaptiveMeanThreshold(img image.Image, window int, bias float64) image.Image {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return img
	}

	gray := make([]float64, w*h)
	for y := range h {
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma
			gray[y*w+x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}

	// Summed-area table with one extra row/column of zeros.
	integral := make([]float64, (w+1)*(h+1))
	for y := 1; y <= h; y++ {
		rowSum := 0.0
		for x := 1; x <= w; x++ {
			rowSum += gray[(y-1)*w+(x-1)]
			integral[y*(w+1)+x] = integral[(y-1)*(w+1)+x] + rowSum
		}
	}

	half := window / 2
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			x1 := clampInt(x-half, 0, w-1)
			y1 := clampInt(y-half, 0, h-1)
			x2 := clampInt(x+half, 0, w-1)
			y2 := clampInt(y+half, 0, h-1)
			area := float64((x2 - x1 + 1) * (y2 - y1 + 1))
			sum := integral[(y2+1)*(w+1)+(x2+1)] -
				integral[(y1)*(w+1)+(x2+1)] -
				integral[(y2+1)*(w+1)+(x1)] +
				integral[(y1)*(w+1)+(x1)]
			mean := sum / area
			v := uint8(255)
			if gray[y*w+x] < mean-bias {
				v = 0
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return out
}
