package detector

import (
	"context"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/mapscan/internal/models"
)

// Select chooses the detector variant once at construction time: the ONNX
// model detector when its artifact is available and loads, the shape fallback
// otherwise. The returned detector never fails the pipeline: model errors are
// recovered per call by running the fallback.
func Select(config Config) Detector {
	fallback := NewShapeFallbackDetector(config)

	if !models.ModelAvailable(config.ModelPath) {
		slog.Info("Detector model not available, using shape fallback", "model_path", config.ModelPath)
		return fallback
	}

	model, err := NewModelDetector(config)
	if err != nil {
		slog.Warn("Failed to initialize model detector, using shape fallback", "error", err)
		return fallback
	}
	return &resilientDetector{primary: model, fallback: fallback}
}

// resilientDetector wraps the model detector with the deterministic fallback
// so a backend failure degrades to geometric detection instead of an error.
type resilientDetector struct {
	primary  Detector
	fallback Detector
}

func (d *resilientDetector) Name() string { return d.primary.Name() }

func (d *resilientDetector) Detect(ctx context.Context, img image.Image) ([]DetectedObject, error) {
	objects, err := d.primary.Detect(ctx, img)
	if err == nil {
		return objects, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	slog.Warn("Model detection failed, running shape fallback", "error", err)
	return d.fallback.Detect(ctx, img)
}

func (d *resilientDetector) Close() error {
	// The fallback holds no resources; only the model session needs closing.
	return d.primary.Close()
}
