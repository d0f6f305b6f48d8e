package coordparse

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalPair(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLat float64
		wantLon float64
		wantOK  bool
	}{
		{"signed pair", "40.7128, -74.0060", 40.7128, -74.0060, true},
		{"hemisphere letters", "40.7128N 74.0060W", 40.7128, -74.0060, true},
		{"south east", "33.86S, 151.21E", -33.86, 151.21, true},
		{"degree symbols", "48.85° N, 2.35° E", 48.85, 2.35, true},
		{"integer degrees", "50, 10", 50, 10, true},
		{"latitude out of range", "95.0, 10.0", 0, 0, false},
		{"longitude out of range", "45.0, 181.0", 0, 0, false},
		{"both out of range", "120.5, -200.0", 0, 0, false},
		{"no digits", "north arrow", 0, 0, false},
		{"empty", "", 0, 0, false},
	}

	var p Parser
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord, ok := p.Parse(tt.text, 0.9)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, KindPaired, coord.Kind)
			assert.InDelta(t, tt.wantLat, coord.Lat, 1e-9)
			assert.InDelta(t, tt.wantLon, coord.Lon, 1e-9)
			assert.InDelta(t, 0.9, coord.Confidence, 1e-9)
			assert.Equal(t, tt.text, coord.Text)
		})
	}
}

func TestParseDMS(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLat float64
		wantLon float64
		wantOK  bool
	}{
		{"full dms", `40°07'30"N 74°18'45"W`, 40.125, -74.3125, true},
		{"degrees minutes only", `40°30'N 74°15'W`, 40.5, -74.25, true},
		{"mixed seconds", `10°06'S, 48°30'36"E`, -10.1, 48.51, true},
		{"minutes overflow", `40°70'N 74°18'W`, 0, 0, false},
		{"missing hemisphere", `40°07'30" 74°18'45"`, 0, 0, false},
	}

	var p Parser
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord, ok := p.Parse(tt.text, 0.8)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, KindPaired, coord.Kind)
			assert.InDelta(t, tt.wantLat, coord.Lat, 1e-9)
			assert.InDelta(t, tt.wantLon, coord.Lon, 1e-9)
		})
	}
}

func TestParseAxisOnly(t *testing.T) {
	var p Parser

	t.Run("easting", func(t *testing.T) {
		coord, ok := p.Parse("E 421500", 0.7)
		require.True(t, ok)
		assert.Equal(t, KindEastingOnly, coord.Kind)
		assert.InDelta(t, 421500, coord.Lon, 1e-9)
		assert.Zero(t, coord.Lat)
	})

	t.Run("northing", func(t *testing.T) {
		coord, ok := p.Parse("N4422150", 0.7)
		require.True(t, ok)
		assert.Equal(t, KindNorthingOnly, coord.Kind)
		assert.InDelta(t, 4422150, coord.Lat, 1e-9)
		assert.Zero(t, coord.Lon)
	})

	t.Run("easting wrong digit count", func(t *testing.T) {
		_, ok := p.Parse("E 42150", 0.7)
		assert.False(t, ok)
	})

	t.Run("northing wrong digit count", func(t *testing.T) {
		_, ok := p.Parse("N 442215", 0.7)
		assert.False(t, ok)
	})
}

func TestParsePriorityOrder(t *testing.T) {
	// A six-digit Easting label must not be misread by the looser decimal
	// pair pattern, even when extra numbers appear nearby.
	var p Parser
	coord, ok := p.Parse("E 421500 1:25000", 0.6)
	require.True(t, ok)
	assert.Equal(t, KindEastingOnly, coord.Kind)
}

func TestParseRejectsOutOfRangeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("out-of-range decimal pairs never parse", prop.ForAll(
		func(lat, lon float64) bool {
			text := fmt.Sprintf("%.4f, %.4f", lat, lon)
			var p Parser
			_, ok := p.Parse(text, 0.5)
			return !ok
		},
		gen.Float64Range(90.0001, 999),
		gen.Float64Range(-999, 999),
	))

	properties.Property("in-range decimal pairs always parse", prop.ForAll(
		func(lat, lon float64) bool {
			text := fmt.Sprintf("%.4f, %.4f", lat, lon)
			var p Parser
			coord, ok := p.Parse(text, 0.5)
			return ok && coord.Kind == KindPaired
		},
		gen.Float64Range(-89.9, 89.9),
		gen.Float64Range(-179.9, 179.9),
	))

	properties.TestingRun(t)
}
