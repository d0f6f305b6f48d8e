package spatial

import "github.com/MeKo-Tech/mapscan/internal/utils"

// Mapper converts geographic positions to pixel positions on an image of a
// known size using a plate carrée placement: longitude spans the width
// linearly from -180 to 180 and latitude spans the height from 90 down to
// -90. This is a placement heuristic for uncalibrated scans, not a geodetic
// projection.
type Mapper struct {
	Width  int
	Height int
}

// NewMapper returns a mapper for an image of the given dimensions.
func NewMapper(width, height int) *Mapper {
	return &Mapper{Width: width, Height: height}
}

// ToPixel maps a lat/lon position to image coordinates. Positions outside
// the valid geographic range are clamped onto the image edge rather than
// rejected, so every group produces a drawable anchor.
func (m *Mapper) ToPixel(lat, lon float64) utils.Point {
	x := (lon + 180) / 360 * float64(m.Width)
	y := (90 - lat) / 180 * float64(m.Height)
	return utils.Point{
		X: utils.ClampFloat(x, 0, float64(m.Width-1)),
		Y: utils.ClampFloat(y, 0, float64(m.Height-1)),
	}
}

// BBox maps a geographic extent onto the image as a pixel bounding box.
// The north-west corner of the extent becomes the top-left pixel and the
// south-east corner the bottom-right; both corners clamp like ToPixel, so
// an extent straddling the valid range still yields a box inside the image.
func (m *Mapper) BBox(minLat, maxLat, minLon, maxLon float64) utils.Box {
	topLeft := m.ToPixel(maxLat, minLon)
	bottomRight := m.ToPixel(minLat, maxLon)
	return utils.NewBox(topLeft.X, topLeft.Y, bottomRight.X, bottomRight.Y)
}

// GroupBBox maps a group's geographic extent to its pixel bounding box.
func (m *Mapper) GroupBBox(g Group) utils.Box {
	return m.BBox(g.MinLat, g.MaxLat, g.MinLon, g.MaxLon)
}
