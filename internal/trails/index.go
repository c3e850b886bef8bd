package trails

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"

	"github.com/gezmi/trailbus/internal/models"
)

// indexFile is the JSON shape of a persisted trail index: the trail
// list wrapped with a generation timestamp and count.
type indexFile struct {
	GeneratedAt time.Time    `json:"generated_at"`
	NTrails     int          `json:"n_trails"`
	Trails      []indexTrail `json:"trails"`
}

// indexTrail is one trail's on-disk representation — geometry stored as
// [lat, lon] pairs rounded to 6 decimal places (~0.11m), metre values to
// one decimal place. The on-disk order is the reverse of orb.Point's
// (lon, lat); Save/Load swap at the boundary.
type indexTrail struct {
	models.Trail
	GeometryLatLon [][2]float64 `json:"geometry"`
}

// Supplier is the external collaborator that fetches raw trail data
// (e.g. over the Overpass API) and enriches it into models.Trail values.
// Acquiring that data is out of this module's scope; Supplier is only the
// seam a caller's own fetcher plugs into.
type Supplier interface {
	FetchTrails() ([]models.Trail, error)
}

// SaveIndex writes trails to path as the persisted trail index format.
func SaveIndex(path string, trails []models.Trail) error {
	out := indexFile{
		GeneratedAt: time.Now().UTC(),
		NTrails:     len(trails),
	}
	for _, t := range trails {
		it := indexTrail{Trail: t}
		it.GeometryLatLon = make([][2]float64, len(t.Geometry))
		for i, pt := range t.Geometry {
			it.GeometryLatLon[i] = [2]float64{round(pt[1], 6), round(pt[0], 6)}
		}
		it.DistanceKM = round(t.DistanceKM, 3)
		it.ElevationGainM = round(t.ElevationGainM, 1)
		it.ElevationLossM = round(t.ElevationLossM, 1)
		it.MinElevationM = round(t.MinElevationM, 1)
		it.MaxElevationM = round(t.MaxElevationM, 1)
		it.AccessPoints = make([]models.TrailAccessPoint, len(t.AccessPoints))
		for i, ap := range t.AccessPoints {
			ap.WalkDistanceM = round(ap.WalkDistanceM, 1)
			ap.EntryLat = round(ap.EntryLat, 6)
			ap.EntryLon = round(ap.EntryLon, 6)
			ap.TrailKmFromStart = round(ap.TrailKmFromStart, 2)
			it.AccessPoints[i] = ap
		}
		out.Trails = append(out.Trails, it)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling trail index: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadIndex reads a persisted trail index back into models.Trail values.
func LoadIndex(path string) ([]models.Trail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trail index: %w", err)
	}

	var in indexFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing trail index: %w", err)
	}

	trails := make([]models.Trail, len(in.Trails))
	for i, it := range in.Trails {
		t := it.Trail
		t.Geometry = make(orb.LineString, len(it.GeometryLatLon))
		for j, p := range it.GeometryLatLon {
			t.Geometry[j] = orb.Point{p[1], p[0]}
		}
		trails[i] = t
	}
	return trails, nil
}

func round(f float64, decimals int) float64 {
	mult := math.Pow(10, float64(decimals))
	return math.Round(f*mult) / mult
}
