package utils

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ImageConstraints defines dimension limits for model input preparation.
type ImageConstraints struct {
	MaxWidth  int
	MaxHeight int
	MinWidth  int
	MinHeight int
}

// DefaultImageConstraints returns the default constraints for detection input.
func DefaultImageConstraints() ImageConstraints {
	return ImageConstraints{
		MaxWidth:  1024,
		MaxHeight: 1024,
		MinWidth:  32,
		MinHeight: 32,
	}
}

// ResizeImage resizes an image while preserving aspect ratio and ensuring
// dimensions are multiples of 32. Uses Lanczos resampling for quality.
func ResizeImage(img image.Image, constraints ImageConstraints) (image.Image, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "resize", Err: errors.New("input image is nil")}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width < constraints.MinWidth || height < constraints.MinHeight {
		return nil, &ImageProcessingError{
			Operation: "resize",
			Err: fmt.Errorf("image dimensions %dx%d below minimum %dx%d",
				width, height, constraints.MinWidth, constraints.MinHeight),
		}
	}

	scaleX := float64(constraints.MaxWidth) / float64(width)
	scaleY := float64(constraints.MaxHeight) / float64(height)
	scale := math.Min(scaleX, scaleY)

	// Only scale down, never up
	if scale >= 1.0 {
		scale = 1.0
	}

	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	// Multiples of 32 for ONNX model compatibility
	newWidth = (newWidth / 32) * 32
	newHeight = (newHeight / 32) * 32
	if newWidth < constraints.MinWidth {
		newWidth = constraints.MinWidth
	}
	if newHeight < constraints.MinHeight {
		newHeight = constraints.MinHeight
	}

	if newWidth == width && newHeight == height {
		return img, nil
	}
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos), nil
}

// NormalizeImage normalizes an image for model inference:
// - Converts to RGB (removes alpha channel)
// - Scales pixel values from 0-255 to 0-1
// - Reorders channels to NCHW format for ONNX.
func NormalizeImage(img image.Image) ([]float32, int, int, error) {
	if img == nil {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("input image is nil")}
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tensor := make([]float32, 3*height*width)
	for y := range height {
		for x := range width {
			r, g, b, _ := nrgba.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			tensor[0*height*width+y*width+x] = float32(r>>8) / 255.0
			tensor[1*height*width+y*width+x] = float32(g>>8) / 255.0
			tensor[2*height*width+y*width+x] = float32(b>>8) / 255.0
		}
	}
	return tensor, width, height, nil
}
