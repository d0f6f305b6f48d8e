package coordparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/mapscan/internal/ocr"
	"github.com/MeKo-Tech/mapscan/internal/utils"
)

func fragmentAt(text string, x, y float64) ocr.Fragment {
	return ocr.Fragment{
		Text:       text,
		Confidence: 0.9,
		Polygon: []utils.Point{
			{X: x - 5, Y: y - 3},
			{X: x + 5, Y: y - 3},
			{X: x + 5, Y: y + 3},
			{X: x - 5, Y: y + 3},
		},
	}
}

func TestBorderExtractorKeepsOnlyBandFragments(t *testing.T) {
	e := NewBorderExtractor(0.15, nil)

	fragments := []ocr.Fragment{
		fragmentAt("E 421500", 50, 500),    // left band of a 1000px image
		fragmentAt("N 4422150", 500, 40),   // top band
		fragmentAt("E 777777", 500, 500),   // interior, must be ignored
		fragmentAt("legend", 30, 30),       // band but unparseable
		fragmentAt("40.5, -74.2", 980, 40), // top-right corner, paired
	}

	coords := e.Extract(1000, 1000, fragments)
	require.Len(t, coords, 3)

	assert.Equal(t, KindEastingOnly, coords[0].Kind)
	assert.InDelta(t, 421500, coords[0].Lon, 1e-9)
	assert.Equal(t, KindNorthingOnly, coords[1].Kind)
	assert.Equal(t, KindPaired, coords[2].Kind)
}

func TestBorderExtractorSetsPositionalProxy(t *testing.T) {
	e := NewBorderExtractor(0.15, nil)

	// On a 360x180 image the proxy mapping is one degree per pixel.
	coords := e.Extract(360, 180, []ocr.Fragment{fragmentAt("E 421500", 180, 0)})
	require.Len(t, coords, 1)
	assert.InDelta(t, 0, coords[0].ProxyLon, 1e-9)
	assert.InDelta(t, 90, coords[0].ProxyLat, 1e-9)

	lat, lon := coords[0].GroupPoint()
	assert.InDelta(t, 90, lat, 1e-9)
	assert.InDelta(t, 0, lon, 1e-9)
}

func TestBorderExtractorInvalidDimensions(t *testing.T) {
	e := NewBorderExtractor(0.15, nil)
	assert.Nil(t, e.Extract(0, 100, []ocr.Fragment{fragmentAt("E 421500", 1, 1)}))
	assert.Nil(t, e.Extract(100, -1, nil))
}

func TestNewBorderExtractorClampsRatio(t *testing.T) {
	assert.InDelta(t, DefaultMarginRatio, NewBorderExtractor(0, nil).MarginRatio, 1e-9)
	assert.InDelta(t, DefaultMarginRatio, NewBorderExtractor(0.9, nil).MarginRatio, 1e-9)
	assert.InDelta(t, 0.2, NewBorderExtractor(0.2, nil).MarginRatio, 1e-9)
}

func TestGroupPointPairedUsesRealValues(t *testing.T) {
	c := Coordinate{Kind: KindPaired, Lat: 40.5, Lon: -74.2, ProxyLat: 1, ProxyLon: 2}
	lat, lon := c.GroupPoint()
	assert.InDelta(t, 40.5, lat, 1e-9)
	assert.InDelta(t, -74.2, lon, 1e-9)
}
