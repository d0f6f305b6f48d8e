// Package ocr provides the text recognition capability consumed by the
// map-analysis pipeline. The backend is Tesseract via gosseract; engine
// failures are expected on non-map imagery and degrade to empty results
// at the pipeline stage boundary.
package ocr

import (
	"context"
	"image"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// Fragment is one recognized text fragment with its image-space polygon.
type Fragment struct {
	Text       string
	Polygon    []utils.Point
	Confidence float64
}

// Centroid returns the centroid of the fragment polygon.
func (f Fragment) Centroid() utils.Point {
	return utils.Centroid(f.Polygon)
}

// Reader recognizes text fragments in a decoded image.
// Implementations must be safe for concurrent use.
type Reader interface {
	ReadText(ctx context.Context, img image.Image) ([]Fragment, error)
	Close() error
}

// Config holds configuration for the OCR capability.
type Config struct {
	Language      string  // Tesseract language code
	MinConfidence float64 // threshold for general downstream use
	Preprocess    utils.PreprocessConfig
}

// DefaultConfig returns OCR defaults for map imagery.
func DefaultConfig() Config {
	return Config{
		Language:      "eng",
		MinConfidence: 0.5,
		Preprocess:    utils.DefaultPreprocessConfig(),
	}
}

// FilterConfident returns the fragments at or above the confidence threshold.
func FilterConfident(fragments []Fragment, minConfidence float64) []Fragment {
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Confidence >= minConfidence {
			out = append(out, f)
		}
	}
	return out
}
