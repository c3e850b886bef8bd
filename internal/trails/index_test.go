package trails_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezmi/trailbus/internal/models"
	"github.com/gezmi/trailbus/internal/trails"
)

func TestSaveAndLoadIndex_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trail_index.json")

	original := []models.Trail{
		{
			ID:             "nahal-zin",
			Name:           "Nahal Zin",
			Source:         "osm",
			Geometry:       orb.LineString{{34.80123456, 30.901234}, {34.81, 30.91}},
			DistanceKM:     12.34567,
			ElevationGainM: 450.26,
			Difficulty:     "moderate",
			Colors:         []string{"red"},
			AccessPoints: []models.TrailAccessPoint{
				{StopID: "s1", StopName: "Mitzpe Ramon", WalkDistanceM: 312.456, TrailKmFromStart: 0.512},
			},
		},
	}

	require.NoError(t, trails.SaveIndex(path, original))

	// The on-disk geometry array is [lat, lon] ordered, the reverse of
	// the in-memory orb.Point (lon, lat).
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk struct {
		NTrails int `json:"n_trails"`
		Trails  []struct {
			Geometry [][2]float64 `json:"geometry"`
		} `json:"trails"`
	}
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Equal(t, 1, onDisk.NTrails)
	require.Len(t, onDisk.Trails[0].Geometry, 2)
	assert.InDelta(t, 30.901234, onDisk.Trails[0].Geometry[0][0], 1e-6) // lat first
	assert.InDelta(t, 34.801235, onDisk.Trails[0].Geometry[0][1], 1e-6) // lon second

	loaded, err := trails.LoadIndex(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, "nahal-zin", got.ID)
	assert.InDelta(t, 12.346, got.DistanceKM, 0.001)
	assert.InDelta(t, 450.3, got.ElevationGainM, 0.05)
	require.Len(t, got.Geometry, 2)
	assert.InDelta(t, 34.801235, got.Geometry[0][0], 1e-6)
	require.Len(t, got.AccessPoints, 1)
	assert.InDelta(t, 312.5, got.AccessPoints[0].WalkDistanceM, 0.05)
}

func TestLoadIndex_MissingFile(t *testing.T) {
	_, err := trails.LoadIndex(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
