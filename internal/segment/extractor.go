package segment

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/MeKo-Tech/mapscan/internal/utils"
)

// DefaultSegmentSize is the side length of the fallback crop used when a
// requested region does not fit the image.
const DefaultSegmentSize = 100

// Segment describes one extracted region artifact.
type Segment struct {
	Name   string    `json:"name"`
	Box    utils.Box `json:"box"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// Extractor crops regions out of a source image and writes them through a
// Store. Invalid regions degrade to a size×size crop at the image origin
// instead of failing the whole job.
type Extractor struct {
	store  *Store
	size   int
	logger *slog.Logger
}

// NewExtractor returns an extractor writing through store. size is the side
// length of the fallback crop; <= 0 keeps the default.
func NewExtractor(store *Store, size int, logger *slog.Logger) *Extractor {
	if size <= 0 {
		size = DefaultSegmentSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{store: store, size: size, logger: logger}
}

// Extract crops the region described by box out of img and persists it as
// segment_<jobID>_<suffix>.png. A box that is degenerate or falls outside
// the image is replaced by the fallback crop at the top-left corner. A
// failed write never aborts the caller: a marker artifact named
// segment_error_<jobID>.png is left behind and its name becomes the
// segment's name, so the failure stays visible in both the result and the
// output directory.
func (e *Extractor) Extract(img image.Image, box utils.Box, jobID string) Segment {
	bounds := img.Bounds()
	if !validRegion(box, bounds) {
		e.logger.Warn("segment region invalid, using default crop",
			"job_id", jobID,
			"x1", box.MinX, "y1", box.MinY, "x2", box.MaxX, "y2", box.MaxY)
		box = e.defaultRegion(bounds)
	}

	crop := imaging.Crop(img, box.ToRect(bounds))
	name := fmt.Sprintf("segment_%s_%s.png", jobID, uuid.NewString()[:8])

	seg := Segment{
		Name:   name,
		Box:    box,
		Width:  crop.Bounds().Dx(),
		Height: crop.Bounds().Dy(),
	}
	if err := e.store.SavePNG(name, crop); err != nil {
		e.logger.Error("segment write failed",
			"job_id", jobID, "name", name, "error", err)
		seg.Name = e.writeErrorMarker(jobID)
		return seg
	}

	e.logger.Debug("segment written",
		"job_id", jobID, "name", name, "width", seg.Width, "height", seg.Height)
	return seg
}

func validRegion(box utils.Box, bounds image.Rectangle) bool {
	return box.Width() >= 1 && box.Height() >= 1 &&
		box.MinX >= 0 && box.MinY >= 0 &&
		box.MaxX <= float64(bounds.Dx()) && box.MaxY <= float64(bounds.Dy())
}

func (e *Extractor) defaultRegion(bounds image.Rectangle) utils.Box {
	w := min(e.size, bounds.Dx())
	h := min(e.size, bounds.Dy())
	return utils.NewBox(0, 0, float64(w), float64(h))
}

func (e *Extractor) writeErrorMarker(jobID string) string {
	name := fmt.Sprintf("segment_error_%s.png", jobID)
	marker := image.NewGray(image.Rect(0, 0, 1, 1))
	if err := e.store.SavePNG(name, marker); err != nil {
		e.logger.Error("segment error marker write failed", "job_id", jobID, "error", err)
	}
	return name
}
