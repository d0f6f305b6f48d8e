package detector

import (
	"github.com/MeKo-Tech/mapscan/internal/models"
)

// Config holds configuration for the detection capability.
type Config struct {
	ModelPath           string  // Path to the cartographic detector ONNX model
	ConfidenceThreshold float64 // Minimum confidence for model detections
	NumThreads          int     // Intra-op thread count (0 = runtime default)
	MaxImageSize        int     // Maximum input dimension before scale-down

	// Shape fallback tuning
	FallbackConfidence float64 // Nominal confidence assigned to fallback shapes
	MinContourArea     int     // Minimum component bbox area in pixels
	SimplifyEpsilon    float64 // Douglas-Peucker tolerance for contour vertices
}

// DefaultConfig returns detection defaults.
func DefaultConfig() Config {
	return Config{
		ModelPath:           models.DetectorModelPath(""),
		ConfidenceThreshold: 0.25,
		NumThreads:          0,
		MaxImageSize:        1024,
		FallbackConfidence:  0.5,
		MinContourArea:      100,
		SimplifyEpsilon:     3.0,
	}
}

// UpdateModelPath re-resolves the model path against a models directory.
func (c *Config) UpdateModelPath(modelsDir string) {
	c.ModelPath = models.DetectorModelPath(modelsDir)
}
