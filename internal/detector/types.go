// Package detector provides the cartographic object detection capability:
// an ONNX model detector with a deterministic geometric fallback.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// Class names emitted by the model detector.
const (
	ClassText     = "text"
	ClassLegend   = "legend"
	ClassScaleBar = "scale_bar"
	ClassGridLine = "grid_line"
	ClassUnknown  = "unknown"
)

// Class names emitted by the shape fallback detector.
const (
	ClassRectangleRegion = "rectangle_region"
	ClassCircleRegion    = "circle_region"
	ClassPolygonRegion   = "polygon_region"
)

// modelClassNames maps model class indices to cartographic element names.
var modelClassNames = map[int]string{
	0: ClassText,
	1: ClassLegend,
	2: ClassScaleBar,
	3: ClassGridLine,
}

// ClassNameForIndex returns the cartographic class for a model class index.
func ClassNameForIndex(idx int) string {
	if name, ok := modelClassNames[idx]; ok {
		return name
	}
	return ClassUnknown
}

// DetectedObject is one detected cartographic element in pixel space.
// Immutable once produced.
type DetectedObject struct {
	Box        utils.Box
	ClassName  string
	Confidence float64
}

// detectedObjectJSON is the wire form: bbox as [x1, y1, x2, y2] pixel ints.
type detectedObjectJSON struct {
	BBox       [4]int  `json:"bbox"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
}

// MarshalJSON serializes the object with an integer corner-pair bbox.
func (d DetectedObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(detectedObjectJSON{
		BBox:       [4]int{int(d.Box.MinX), int(d.Box.MinY), int(d.Box.MaxX), int(d.Box.MaxY)},
		ClassName:  d.ClassName,
		Confidence: d.Confidence,
	})
}

// UnmarshalJSON restores the object from its wire form.
func (d *DetectedObject) UnmarshalJSON(data []byte) error {
	var w detectedObjectJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.Box = utils.NewBox(float64(w.BBox[0]), float64(w.BBox[1]), float64(w.BBox[2]), float64(w.BBox[3]))
	d.ClassName = w.ClassName
	d.Confidence = w.Confidence
	return nil
}

// Validate checks bbox ordering and confidence range against image dimensions.
func (d DetectedObject) Validate(width, height int) error {
	if d.Box.Width() <= 0 || d.Box.Height() <= 0 {
		return fmt.Errorf("object %q has non-positive box size", d.ClassName)
	}
	if d.Box.MinX < 0 || d.Box.MinY < 0 || d.Box.MaxX > float64(width) || d.Box.MaxY > float64(height) {
		return fmt.Errorf("object %q box out of bounds", d.ClassName)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("object %q confidence out of range", d.ClassName)
	}
	return nil
}

// Detector detects cartographic elements in a decoded image.
// Implementations must be safe for concurrent use.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]DetectedObject, error)
	Name() string
	Close() error
}
