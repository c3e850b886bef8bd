package spatial

import (
	"github.com/paulmach/orb"

	"github.com/gezmi/trailbus/internal/geo"
)

// nearestOnSegment returns the closest point to pt on the segment [a, b]
// in a planar (lon, lat) approximation — adequate at trail scale (a few
// kilometers) where the projection error is well under a meter.
func nearestOnSegment(a, b, pt orb.Point) (orb.Point, float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}
	t := ((pt[0]-a[0])*dx + (pt[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return orb.Point{a[0] + t*dx, a[1] + t*dy}, t
}

// ProjectPoint finds the point on line closest to pt, and returns the
// fraction of line's total length (by great-circle distance) that lies
// before the projection. The nearest point is found in planar degree
// space; the fraction walks cumulative haversine length, so it holds up
// at mid-latitudes where a degree of longitude is shorter than a degree
// of latitude.
func ProjectPoint(line orb.LineString, pt orb.Point) (nearest orb.Point, fraction float64) {
	if len(line) == 0 {
		return pt, 0
	}
	if len(line) == 1 {
		return line[0], 0
	}

	totalLen := geo.LineLengthKM(line)
	if totalLen == 0 {
		return line[0], 0
	}

	bestDistSq := -1.0
	bestPoint := line[0]
	bestLenBeforeKM := 0.0

	cumKM := 0.0
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		segLenKM := geo.HaversinePoints(a, b) / 1000.0

		cand, t := nearestOnSegment(a, b, pt)
		dx, dy := cand[0]-pt[0], cand[1]-pt[1]
		distSq := dx*dx + dy*dy

		if bestDistSq < 0 || distSq < bestDistSq {
			bestDistSq = distSq
			bestPoint = cand
			bestLenBeforeKM = cumKM + t*segLenKM
		}
		cumKM += segLenKM
	}

	return bestPoint, bestLenBeforeKM / totalLen
}
