// Package elevation samples SRTM-derived elevation along trail geometry
// and computes gain/loss/min/max statistics. Actually opening and
// reading .tif/.hgt raster tiles is left to a TileReader implementation
// (an external collaborator), so this package stays pure once a reader
// is supplied.
package elevation

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/geo"
)

// noDataFloor: SRTM nodata is typically -32768, but some reprocessed
// tiles clamp to a less extreme value, so treat anything at or below
// -1000m as absent.
const noDataFloor = -1000.0

// TileReader samples elevation at a single point from whatever raster
// backend holds the SRTM tiles. Returns ok=false when the tile for that
// coordinate isn't available.
type TileReader interface {
	ElevationAt(lat, lon float64) (elevationM float64, ok bool)
}

// TileName returns the SRTM tile base name for a coordinate, e.g.
// "N31E034" — tiles are named by their SW corner.
func TileName(lat, lon float64) string {
	latPrefix, lonPrefix := "N", "E"
	if lat < 0 {
		latPrefix = "S"
	}
	if lon < 0 {
		lonPrefix = "W"
	}
	latInt := int(math.Floor(lat))
	lonInt := int(math.Floor(lon))
	return fmt.Sprintf("%s%02d%s%03d", latPrefix, absInt(latInt), lonPrefix, absInt(lonInt))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// SamplePoint reads one elevation value through reader, discarding
// nodata sentinels.
func SamplePoint(reader TileReader, lat, lon float64) (float64, bool) {
	elev, ok := reader.ElevationAt(lat, lon)
	if !ok || elev <= noDataFloor {
		return 0, false
	}
	return elev, true
}

// Profile is the elevation summary for one trail.
type Profile struct {
	ElevationGainM   float64
	ElevationLossM   float64
	MaxElevationM    float64
	MinElevationM    float64
	ElevationProfile []float64
}

// SampleTrail walks geometry at config.SRTMSampleIntervalM spacing and
// accumulates gain/loss/min/max. Returns a zero Profile (with a nil
// ElevationProfile) if fewer than two samples resolve to real elevation.
func SampleTrail(reader TileReader, geometry orb.LineString, distanceKM float64) Profile {
	distanceM := distanceKM * 1000.0
	nSamples := int(distanceM / config.SRTMSampleIntervalM)
	if nSamples < 2 {
		nSamples = 2
	}

	var elevations []float64
	for i := 0; i <= nSamples; i++ {
		fraction := float64(i) / float64(nSamples)
		pt := geo.InterpolateAlong(geometry, fraction)
		if elev, ok := SamplePoint(reader, pt[1], pt[0]); ok {
			elevations = append(elevations, elev)
		}
	}

	if len(elevations) < 2 {
		return Profile{}
	}

	var gain, loss float64
	minElev, maxElev := elevations[0], elevations[0]
	for i := 1; i < len(elevations); i++ {
		delta := elevations[i] - elevations[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss += -delta
		}
		if elevations[i] < minElev {
			minElev = elevations[i]
		}
		if elevations[i] > maxElev {
			maxElev = elevations[i]
		}
	}

	return Profile{
		ElevationGainM:   roundTo1(gain),
		ElevationLossM:   roundTo1(loss),
		MaxElevationM:    roundTo1(maxElev),
		MinElevationM:    roundTo1(minElev),
		ElevationProfile: elevations,
	}
}

func roundTo1(f float64) float64 {
	return math.Round(f*10) / 10
}
