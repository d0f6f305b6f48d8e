package coordparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Notation patterns, tried in a fixed priority order. The axis-only Easting
// and Northing forms go first because their digit runs would otherwise be
// swallowed by the looser decimal-pair pattern.
var (
	eastingPattern  = regexp.MustCompile(`\bE\s*(\d{6})\b`)
	northingPattern = regexp.MustCompile(`\bN\s*(\d{7})\b`)

	// Signed or hemisphere-suffixed decimal degree pair, e.g.
	// "40.12, -74.30" or "40.12N 74.30W".
	decimalPattern = regexp.MustCompile(
		`([+-]?\d{1,3}(?:\.\d+)?)\s*°?\s*([NSns])?\s*[,;\s]\s*([+-]?\d{1,3}(?:\.\d+)?)\s*°?\s*([EWew])?`)

	// Degrees-minutes with optional seconds, hemisphere letters required,
	// e.g. `40°07'30"N 74°18'W`.
	dmsPattern = regexp.MustCompile(
		`(\d{1,3})[°º]\s*(\d{1,2}(?:\.\d+)?)['′]\s*(?:(\d{1,2}(?:\.\d+)?)["″]\s*)?([NSns])` +
			`[,;\s]*` +
			`(\d{1,3})[°º]\s*(\d{1,2}(?:\.\d+)?)['′]\s*(?:(\d{1,2}(?:\.\d+)?)["″]\s*)?([EWew])`)
)

// Parser turns free-form OCR text into Coordinates. The zero value is ready
// to use.
type Parser struct{}

// Parse attempts each supported notation in priority order and returns the
// first successful interpretation. The boolean reports whether any notation
// matched with in-range values; text that matches a pattern syntactically but
// fails numeric conversion or range checks falls through to later notations.
func (p *Parser) Parse(text string, confidence float64) (Coordinate, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Coordinate{}, false
	}

	if c, ok := p.parseEasting(trimmed, confidence); ok {
		return c, true
	}
	if c, ok := p.parseNorthing(trimmed, confidence); ok {
		return c, true
	}
	if c, ok := p.parseDecimalPair(trimmed, confidence); ok {
		return c, true
	}
	if c, ok := p.parseDMS(trimmed, confidence); ok {
		return c, true
	}
	return Coordinate{}, false
}

func (p *Parser) parseEasting(text string, confidence float64) (Coordinate, bool) {
	m := eastingPattern.FindStringSubmatch(text)
	if m == nil {
		return Coordinate{}, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{
		Kind:       KindEastingOnly,
		Lon:        value,
		Confidence: confidence,
		Text:       text,
	}, true
}

func (p *Parser) parseNorthing(text string, confidence float64) (Coordinate, bool) {
	m := northingPattern.FindStringSubmatch(text)
	if m == nil {
		return Coordinate{}, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{
		Kind:       KindNorthingOnly,
		Lat:        value,
		Confidence: confidence,
		Text:       text,
	}, true
}

func (p *Parser) parseDecimalPair(text string, confidence float64) (Coordinate, bool) {
	m := decimalPattern.FindStringSubmatch(text)
	if m == nil {
		return Coordinate{}, false
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Coordinate{}, false
	}
	lat = applyHemisphere(lat, m[2])
	lon = applyHemisphere(lon, m[4])

	// Out-of-range pairs are rejected outright, never clamped: a clamped
	// value would place a segment at a plausible but wrong location.
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Coordinate{}, false
	}
	return Coordinate{
		Kind:       KindPaired,
		Lat:        lat,
		Lon:        lon,
		Confidence: confidence,
		Text:       text,
	}, true
}

func (p *Parser) parseDMS(text string, confidence float64) (Coordinate, bool) {
	m := dmsPattern.FindStringSubmatch(text)
	if m == nil {
		return Coordinate{}, false
	}

	lat, ok := sexagesimal(m[1], m[2], m[3], m[4])
	if !ok {
		return Coordinate{}, false
	}
	lon, ok := sexagesimal(m[5], m[6], m[7], m[8])
	if !ok {
		return Coordinate{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Coordinate{}, false
	}
	return Coordinate{
		Kind:       KindPaired,
		Lat:        lat,
		Lon:        lon,
		Confidence: confidence,
		Text:       text,
	}, true
}

// sexagesimal converts degree/minute/second components to decimal degrees.
// The seconds component may be empty (degrees-minutes notation).
func sexagesimal(deg, min, sec, hemi string) (float64, bool) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, false
	}
	m, err := strconv.ParseFloat(min, 64)
	if err != nil {
		return 0, false
	}
	var s float64
	if sec != "" {
		s, err = strconv.ParseFloat(sec, 64)
		if err != nil {
			return 0, false
		}
	}
	if m >= 60 || s >= 60 {
		return 0, false
	}
	return applyHemisphere(d+m/60+s/3600, hemi), true
}

// applyHemisphere negates the value for south and west hemisphere letters.
func applyHemisphere(value float64, hemi string) float64 {
	switch strings.ToUpper(hemi) {
	case "S", "W":
		return -value
	}
	return value
}
