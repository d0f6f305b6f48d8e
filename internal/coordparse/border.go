package coordparse

import (
	"log/slog"

	"github.com/MeKo-Tech/mapscan/internal/ocr"
)

// DefaultMarginRatio is the fraction of each image dimension treated as the
// border band where grid labels are printed.
const DefaultMarginRatio = 0.15

// BorderExtractor scans OCR fragments whose centroids fall inside the margin
// band of a map image and parses them as coordinate labels. Fragments in the
// interior are ignored here; they belong to the general text pass.
type BorderExtractor struct {
	MarginRatio float64
	parser      Parser
	logger      *slog.Logger
}

// NewBorderExtractor returns an extractor with the given margin ratio.
// Ratios outside (0, 0.5) fall back to the default.
func NewBorderExtractor(marginRatio float64, logger *slog.Logger) *BorderExtractor {
	if marginRatio <= 0 || marginRatio >= 0.5 {
		marginRatio = DefaultMarginRatio
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BorderExtractor{MarginRatio: marginRatio, logger: logger}
}

// Extract parses every border-band fragment and returns the coordinates that
// parsed successfully. Axis-only coordinates receive a positional proxy
// derived from the fragment centroid so that grouping can still place them.
func (e *BorderExtractor) Extract(imgWidth, imgHeight int, fragments []ocr.Fragment) []Coordinate {
	if imgWidth <= 0 || imgHeight <= 0 {
		return nil
	}

	var coords []Coordinate
	for _, frag := range fragments {
		c := frag.Centroid()
		if !e.InBand(c.X, c.Y, imgWidth, imgHeight) {
			continue
		}
		coord, ok := e.parser.Parse(frag.Text, frag.Confidence)
		if !ok {
			continue
		}
		coord.ProxyLat, coord.ProxyLon = ProxyFromPixel(c.X, c.Y, imgWidth, imgHeight)
		coords = append(coords, coord)
		e.logger.Debug("border label parsed",
			"text", frag.Text,
			"kind", string(coord.Kind),
			"centroid_x", c.X,
			"centroid_y", c.Y)
	}
	return coords
}

// InBand reports whether an image-space point falls inside the margin band.
func (e *BorderExtractor) InBand(x, y float64, w, h int) bool {
	mx := e.MarginRatio * float64(w)
	my := e.MarginRatio * float64(h)
	return x < mx || x > float64(w)-mx || y < my || y > float64(h)-my
}

// ProxyFromPixel maps an image-space centroid into the degree-valued frame
// used for grouping, via the inverse of the plate carrée placement mapping.
// The result is a positional stand-in, not a geodetic claim.
func ProxyFromPixel(x, y float64, w, h int) (lat, lon float64) {
	lon = x/float64(w)*360 - 180
	lat = 90 - y/float64(h)*180
	return lat, lon
}
