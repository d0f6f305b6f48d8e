// Package coordparse parses OCR text fragments into structured geographic
// coordinates under several geodetic notations, and specializes parsing to
// the margin bands of a map image where grid labels are printed.
package coordparse

// Kind tags which axes of a Coordinate carry geodetically meaningful values.
// Map sheets frequently label only one axis (a bare UTM-like Easting or
// Northing number), so the unpaired axis holds a placeholder that must never
// be read as geodesy.
type Kind string

const (
	// KindPaired means both Lat and Lon are recovered coordinate values.
	KindPaired Kind = "paired"
	// KindEastingOnly means Lon holds a raw Easting value and Lat is a placeholder.
	KindEastingOnly Kind = "easting_only"
	// KindNorthingOnly means Lat holds a raw Northing value and Lon is a placeholder.
	KindNorthingOnly Kind = "northing_only"
)

// Coordinate is one parsed coordinate annotation.
//
// For axis-only kinds, ProxyLat/ProxyLon carry a positional stand-in derived
// from the source fragment's image-space centroid. They are used only for
// spatial grouping and placement, never presented as geodetic values.
type Coordinate struct {
	Kind       Kind    `json:"kind"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text"`

	ProxyLat float64 `json:"proxy_lat"`
	ProxyLon float64 `json:"proxy_lon"`
}

// GroupPoint returns the (lat, lon) pair used for proximity grouping:
// the real values for paired coordinates, the positional proxy otherwise.
// Raw Easting/Northing numbers are not in degrees, so comparing them against
// degree-valued axes would be meaningless.
func (c Coordinate) GroupPoint() (float64, float64) {
	if c.Kind == KindPaired {
		return c.Lat, c.Lon
	}
	return c.ProxyLat, c.ProxyLon
}
