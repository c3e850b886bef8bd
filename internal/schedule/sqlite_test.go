package schedule

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDiskFeed() *RawFeed {
	return &RawFeed{
		Stops: []stopRow{
			{StopID: "A", StopName: "Origin", StopLat: "31.89", StopLon: "34.81"},
			{StopID: "B", StopName: "Trailhead", StopLat: "31.80", StopLon: "34.80"},
		},
		Agencies: []agencyRow{{AgencyID: "EG", AgencyName: "Egged"}},
		Routes:   []routeRow{{RouteID: "R1", AgencyID: "EG", RouteShortName: "270"}},
		Trips:    []tripRow{{TripID: "T1", RouteID: "R1", ServiceID: "S1"}},
		StopTimes: []stopTimeRow{
			{TripID: "T1", StopID: "B", StopSequence: "2", ArrivalTime: "07:30:00", DepartureTime: "07:30:00"},
			{TripID: "T1", StopID: "A", StopSequence: "1", ArrivalTime: "07:00:00", DepartureTime: "07:00:00"},
		},
	}
}

func TestBuildDiskStore_RoundTripsThroughSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.db")
	store, err := BuildDiskStore(path, buildDiskFeed())
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	deps, ok := store.StopDepartures("A")
	require.True(t, ok)
	require.Len(t, deps, 1)
	assert.Equal(t, 7*3600, deps[0].DepartureSecs)
	assert.Equal(t, "T1", string(deps[0].TripID))

	stops, ok := store.TripStops("T1")
	require.True(t, ok)
	require.Len(t, stops, 2)
	assert.Equal(t, "A", string(stops[0].StopID))
	assert.Equal(t, "B", string(stops[1].StopID))

	assert.Equal(t, "Origin", store.StopName("A"))
	assert.Equal(t, "missing", store.StopName("missing"))

	routeID, ok := store.TripRoute("T1")
	require.True(t, ok)
	assert.Equal(t, "R1", string(routeID))

	info, ok := store.RouteInfo("R1")
	require.True(t, ok)
	assert.Equal(t, "270", info.ShortName)
	assert.Equal(t, "Egged", info.AgencyName)
}

func TestDiskStore_UnknownIDsAreAbsentNotErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.db")
	store, err := BuildDiskStore(path, buildDiskFeed())
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	_, ok := store.StopDepartures("nope")
	assert.False(t, ok)

	_, ok = store.TripStops("nope")
	assert.False(t, ok)

	_, ok = store.TripRoute("nope")
	assert.False(t, ok)

	_, ok = store.RouteInfo("nope")
	assert.False(t, ok)
}

func TestDiskStore_CachesRepeatLookups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.db")
	store, err := BuildDiskStore(path, buildDiskFeed())
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	first, ok := store.StopDepartures("A")
	require.True(t, ok)
	_, cached := store.stopDepCache["A"]
	assert.True(t, cached)
	second, ok := store.StopDepartures("A")
	require.True(t, ok)
	assert.Equal(t, first, second)
}
