// Package geo provides the great-circle distance primitive and the
// polyline helpers the spatial join and trail ingestion need. The scalar
// haversine is plain math; orb.Point/orb.LineString are the shared
// geometry types so trail and stop geometry has one consistent
// representation across packages.
package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/gezmi/trailbus/internal/config"
)

// Haversine returns the great-circle distance in meters between two
// WGS-84 coordinates. Symmetric; zero iff the coordinates are identical.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return config.EarthRadiusMeters * c
}

// HaversinePoints is Haversine for orb.Point values, which are (lon, lat)
// ordered — the convention orb and GeoJSON share.
func HaversinePoints(a, b orb.Point) float64 {
	return Haversine(a[1], a[0], b[1], b[0])
}

// LineLengthKM sums great-circle distances between consecutive polyline
// vertices, in kilometers. Trail.DistanceKM is defined as exactly this sum.
func LineLengthKM(line orb.LineString) float64 {
	if len(line) < 2 {
		return 0
	}
	var totalM float64
	for i := 1; i < len(line); i++ {
		totalM += HaversinePoints(line[i-1], line[i])
	}
	return totalM / 1000.0
}

// IsLoopDistanceM is the threshold below which a polyline's endpoints are
// considered the same physical point.
const IsLoopDistanceM = 100.0

// IsLoop reports whether the polyline's first and last vertices are close
// enough to call it a loop.
func IsLoop(line orb.LineString) bool {
	if len(line) < 2 {
		return false
	}
	return HaversinePoints(line[0], line[len(line)-1]) < IsLoopDistanceM
}

// InterpolateAlong returns the point lying fraction (0..1) of the way
// along line by great-circle length, linearly interpolating within the
// segment fraction falls on.
func InterpolateAlong(line orb.LineString, fraction float64) orb.Point {
	if len(line) == 0 {
		return orb.Point{}
	}
	if len(line) == 1 || fraction <= 0 {
		return line[0]
	}
	if fraction >= 1 {
		return line[len(line)-1]
	}

	totalM := 0.0
	segLens := make([]float64, len(line)-1)
	for i := 1; i < len(line); i++ {
		segLens[i-1] = HaversinePoints(line[i-1], line[i])
		totalM += segLens[i-1]
	}
	if totalM == 0 {
		return line[0]
	}

	targetM := fraction * totalM
	cum := 0.0
	for i, segLen := range segLens {
		if cum+segLen >= targetM || i == len(segLens)-1 {
			segFraction := 0.0
			if segLen > 0 {
				segFraction = (targetM - cum) / segLen
			}
			a, b := line[i], line[i+1]
			return orb.Point{
				a[0] + (b[0]-a[0])*segFraction,
				a[1] + (b[1]-a[1])*segFraction,
			}
		}
		cum += segLen
	}
	return line[len(line)-1]
}
