// Package spatial finds bus stops within walking distance of hiking
// trails: a bulk-loaded rtree over stop coordinates, a buffered
// bounding-box query per trail, and a haversine filter over the
// candidates, with the surviving stops projected onto the trail
// polyline to get their along-trail position.
package spatial

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/geo"
	"github.com/gezmi/trailbus/internal/models"
)

// StopIndex is an R-tree over stop locations, built once per schedule
// and queried once per trail.
type StopIndex struct {
	tree  rtree.RTree
	stops []models.Stop
}

// BuildStopIndex indexes every stop's (lon, lat) location.
func BuildStopIndex(stops []models.Stop) *StopIndex {
	idx := &StopIndex{stops: stops}
	for i, s := range stops {
		pt := [2]float64{s.Lon, s.Lat}
		idx.tree.Insert(pt, pt, i)
	}
	return idx
}

// bufferDeg converts a walk-distance budget in meters to a rough degree
// buffer using the equatorial approximation (1 degree ~= 111 km). In
// latitude this spans about the full budget; in longitude a degree is
// shorter away from the equator (~94 km at 32N), so the east-west buffer
// covers less ground than maxDistanceM and a stop lying just inside the
// budget east or west of the trail's bounding box can be left out of the
// candidate set. Candidates are filtered by haversine afterwards.
func bufferDeg(maxDistanceM int) float64 {
	return float64(maxDistanceM) / 111_000.0
}

// BuildTrailAccessPoints finds bus stops near each trail and returns only
// the trails that end up with at least one access point, each with
// AccessPoints populated and sorted by TrailKmFromStart.
func BuildTrailAccessPoints(trails []models.Trail, idx *StopIndex, maxDistanceM int) []models.Trail {
	if len(idx.stops) == 0 {
		return nil
	}

	buf := bufferDeg(maxDistanceM)
	var withAccess []models.Trail

	for _, trail := range trails {
		if len(trail.Geometry) == 0 {
			continue
		}

		minLon, minLat, maxLon, maxLat := bounds(trail.Geometry)
		minLon -= buf
		minLat -= buf
		maxLon += buf
		maxLat += buf

		var candidates []int
		idx.tree.Search(
			[2]float64{minLon, minLat},
			[2]float64{maxLon, maxLat},
			func(_, _ [2]float64, data interface{}) bool {
				candidates = append(candidates, data.(int))
				return true
			},
		)

		var points []models.TrailAccessPoint
		for _, ci := range candidates {
			stop := idx.stops[ci]
			stopPt := orb.Point{stop.Lon, stop.Lat}

			nearest, fraction := ProjectPoint(trail.Geometry, stopPt)
			walkDistM := geo.Haversine(stop.Lat, stop.Lon, nearest[1], nearest[0])
			if walkDistM > float64(maxDistanceM) {
				continue
			}

			points = append(points, models.TrailAccessPoint{
				StopID:           stop.ID,
				StopName:         stop.Name,
				WalkDistanceM:    roundTo(walkDistM, 1),
				EntryLat:         nearest[1],
				EntryLon:         nearest[0],
				TrailKmFromStart: roundTo(fraction*trail.DistanceKM, 2),
			})
		}

		points = deduplicateAccessPoints(points, config.DedupTrailDistanceM)
		sort.Slice(points, func(i, j int) bool {
			return points[i].TrailKmFromStart < points[j].TrailKmFromStart
		})

		if len(points) > 0 {
			trail.AccessPoints = points
			withAccess = append(withAccess, trail)
		}
	}

	return withAccess
}

// deduplicateAccessPoints removes access points that fall within
// minTrailDistanceM of each other along the trail, keeping the shorter
// walk on each collision.
func deduplicateAccessPoints(points []models.TrailAccessPoint, minTrailDistanceM float64) []models.TrailAccessPoint {
	if len(points) <= 1 {
		return points
	}

	sorted := make([]models.TrailAccessPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TrailKmFromStart < sorted[j].TrailKmFromStart
	})

	kept := []models.TrailAccessPoint{sorted[0]}
	for _, ap := range sorted[1:] {
		last := kept[len(kept)-1]
		sepM := absFloat(ap.TrailKmFromStart-last.TrailKmFromStart) * 1000
		if sepM < minTrailDistanceM {
			if ap.WalkDistanceM < last.WalkDistanceM {
				kept[len(kept)-1] = ap
			}
		} else {
			kept = append(kept, ap)
		}
	}
	return kept
}

func bounds(line orb.LineString) (minLon, minLat, maxLon, maxLat float64) {
	minLon, minLat = line[0][0], line[0][1]
	maxLon, maxLat = line[0][0], line[0][1]
	for _, p := range line[1:] {
		if p[0] < minLon {
			minLon = p[0]
		}
		if p[0] > maxLon {
			maxLon = p[0]
		}
		if p[1] < minLat {
			minLat = p[1]
		}
		if p[1] > maxLat {
			maxLat = p[1]
		}
	}
	return
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func roundTo(f float64, decimals int) float64 {
	mult := 1.0
	for i := 0; i < decimals; i++ {
		mult *= 10
	}
	return float64(int(f*mult+0.5)) / mult
}
