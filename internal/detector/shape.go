package detector

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/mapscan/internal/mempool"
	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// ShapeFallbackDetector is a deterministic, model-free detector used when the
// ONNX model artifact is unavailable. It finds closed contours in an edge map
// and classifies them into coarse region shapes by vertex count.
type ShapeFallbackDetector struct {
	config Config
}

// NewShapeFallbackDetector creates the geometric fallback detector.
func NewShapeFallbackDetector(config Config) *ShapeFallbackDetector {
	return &ShapeFallbackDetector{config: config}
}

// Name identifies the detector variant.
func (d *ShapeFallbackDetector) Name() string { return "shape-fallback" }

// Close is a no-op; the fallback holds no external resources.
func (d *ShapeFallbackDetector) Close() error { return nil }

// Detect finds contour-bounded regions. Pure function of the image bytes.
func (d *ShapeFallbackDetector) Detect(ctx context.Context, img image.Image) ([]DetectedObject, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return nil, nil
	}

	lum := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(lum)
	luminance(img, lum)

	edges := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(edges)
	maxMag := sobelMagnitude(lum, edges, w, h)
	if maxMag == 0 {
		return nil, nil
	}

	// Edge pixels are those above a fixed fraction of the strongest gradient.
	mask := mempool.GetBool(w * h)
	defer mempool.PutBool(mask)
	thresh := maxMag * 0.25
	for i, e := range edges {
		mask[i] = e >= thresh
	}

	comps, labels := connectedComponents(mask, w, h)

	objects := make([]DetectedObject, 0, len(comps))
	for i, st := range comps {
		bw := st.maxX - st.minX + 1
		bh := st.maxY - st.minY + 1
		if bw*bh < d.config.MinContourArea {
			continue
		}
		contour := traceContour(labels, w, h, i+1, st)
		if len(contour) < 3 {
			continue
		}
		simplified := utils.SimplifyPolygon(contour, d.config.SimplifyEpsilon)
		objects = append(objects, DetectedObject{
			Box:        utils.BoundingBox(contour),
			ClassName:  classifyVertexCount(len(simplified)),
			Confidence: d.config.FallbackConfidence,
		})
	}

	slog.Debug("Shape fallback detection complete", "components", len(comps), "objects", len(objects))
	return objects, nil
}

// classifyVertexCount buckets a simplified contour into a coarse shape class.
func classifyVertexCount(n int) string {
	switch {
	case n == 4:
		return ClassRectangleRegion
	case n >= 8:
		return ClassCircleRegion
	default:
		return ClassPolygonRegion
	}
}

// luminance fills dst with BT.601 luma values in [0, 1].
func luminance(img image.Image, dst []float32) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	for y := range h {
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			dst[y*w+x] = (0.299*float32(r>>8) + 0.587*float32(g>>8) + 0.114*float32(b>>8)) / 255.0
		}
	}
}

// sobelMagnitude computes gradient magnitudes into dst and returns the maximum.
// Border pixels are left at zero.
func sobelMagnitude(lum, dst []float32, w, h int) float32 {
	for i := range dst[:w*h] {
		dst[i] = 0
	}
	var maxMag float32
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := func(dx, dy int) float32 { return lum[(y+dy)*w+(x+dx)] }
			gx := -idx(-1, -1) - 2*idx(-1, 0) - idx(-1, 1) +
				idx(1, -1) + 2*idx(1, 0) + idx(1, 1)
			gy := -idx(-1, -1) - 2*idx(0, -1) - idx(1, -1) +
				idx(-1, 1) + 2*idx(0, 1) + idx(1, 1)
			mag := float32(math.Hypot(float64(gx), float64(gy)))
			dst[y*w+x] = mag
			if mag > maxMag {
				maxMag = mag
			}
		}
	}
	return maxMag
}
