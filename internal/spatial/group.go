// Package spatial clusters parsed coordinates that refer to the same map
// feature and converts geographic positions into image-space pixels.
package spatial

import (
	"math"

	"github.com/MeKo-Tech/mapscan/internal/coordparse"
)

// GroupThreshold is the Chebyshev distance in degrees under which two
// coordinates are considered annotations of the same feature.
const GroupThreshold = 1.0

// Group is a cluster of coordinates that lie within GroupThreshold of its
// first member. CenterLat/CenterLon are the member means on the grouping
// frame; the Min/Max fields span the members' geographic extent, which the
// mapper turns into a pixel bounding box.
type Group struct {
	Members   []coordparse.Coordinate `json:"members"`
	CenterLat float64                 `json:"center_lat"`
	CenterLon float64                 `json:"center_lon"`
	MinLat    float64                 `json:"min_lat"`
	MaxLat    float64                 `json:"max_lat"`
	MinLon    float64                 `json:"min_lon"`
	MaxLon    float64                 `json:"max_lon"`
}

// Grouper assigns coordinates to groups with a greedy first-fit pass.
// The zero value is ready to use.
type Grouper struct{}

// Group walks the coordinates in input order and assigns each to the first
// existing group whose anchor lies within GroupThreshold on both axes, or
// opens a new group. The pass is single and greedy, so group membership is
// stable for a given input ordering.
func (g *Grouper) Group(coords []coordparse.Coordinate) []Group {
	var groups []Group
	for _, c := range coords {
		lat, lon := c.GroupPoint()
		placed := false
		for i := range groups {
			aLat, aLon := groups[i].Members[0].GroupPoint()
			if chebyshev(lat, lon, aLat, aLon) < GroupThreshold {
				groups[i].Members = append(groups[i].Members, c)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, Group{Members: []coordparse.Coordinate{c}})
		}
	}

	for i := range groups {
		groups[i].CenterLat, groups[i].CenterLon = groupCenter(groups[i].Members)
		groups[i].MinLat, groups[i].MaxLat, groups[i].MinLon, groups[i].MaxLon = groupExtent(groups[i].Members)
	}
	return groups
}

// chebyshev is the L∞ distance between two lat/lon points.
func chebyshev(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Max(math.Abs(lat1-lat2), math.Abs(lon1-lon2))
}

func groupCenter(members []coordparse.Coordinate) (float64, float64) {
	var sumLat, sumLon float64
	for _, m := range members {
		lat, lon := m.GroupPoint()
		sumLat += lat
		sumLon += lon
	}
	n := float64(len(members))
	return sumLat / n, sumLon / n
}

func groupExtent(members []coordparse.Coordinate) (minLat, maxLat, minLon, maxLon float64) {
	first, firstLon := members[0].GroupPoint()
	minLat, maxLat = first, first
	minLon, maxLon = firstLon, firstLon
	for _, m := range members[1:] {
		lat, lon := m.GroupPoint()
		minLat = math.Min(minLat, lat)
		maxLat = math.Max(maxLat, lat)
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
	}
	return minLat, maxLat, minLon, maxLon
}
