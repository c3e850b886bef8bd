package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryStore_BuildsSortedIndexes(t *testing.T) {
	feed := &RawFeed{
		Stops: []stopRow{
			{StopID: "A", StopName: "Origin", StopLat: "31.89", StopLon: "34.81"},
			{StopID: "B", StopName: "Trailhead", StopLat: "31.80", StopLon: "34.80"},
		},
		Agencies: []agencyRow{{AgencyID: "EG", AgencyName: "Egged"}},
		Routes:   []routeRow{{RouteID: "R1", AgencyID: "EG", RouteShortName: "270"}},
		Trips:    []tripRow{{TripID: "T1", RouteID: "R1", ServiceID: "S1"}},
		StopTimes: []stopTimeRow{
			// Intentionally out of order to verify the store sorts on build.
			{TripID: "T1", StopID: "B", StopSequence: "2", ArrivalTime: "07:30:00", DepartureTime: "07:30:00"},
			{TripID: "T1", StopID: "A", StopSequence: "1", ArrivalTime: "07:00:00", DepartureTime: "07:00:00"},
		},
	}

	store, err := NewMemoryStore(feed, nil)
	require.NoError(t, err)

	deps, ok := store.StopDepartures("A")
	require.True(t, ok)
	require.Len(t, deps, 1)
	assert.Equal(t, 7*3600, deps[0].DepartureSecs)

	stops, ok := store.TripStops("T1")
	require.True(t, ok)
	require.Len(t, stops, 2)
	assert.Equal(t, "A", stops[0].StopID)
	assert.Equal(t, "B", stops[1].StopID)

	assert.Equal(t, "Origin", store.StopName("A"))
	assert.Equal(t, "unknown", store.StopName("unknown"))

	routeID, ok := store.TripRoute("T1")
	require.True(t, ok)
	assert.Equal(t, "R1", routeID)

	info, ok := store.RouteInfo("R1")
	require.True(t, ok)
	assert.Equal(t, "270", info.ShortName)
	assert.Equal(t, "Egged", info.AgencyName)

	_, ok = store.StopDepartures("nonexistent")
	assert.False(t, ok)

	assert.NoError(t, store.Close())
}

func TestNewMemoryStore_SkipsMalformedStopTimeRows(t *testing.T) {
	feed := &RawFeed{
		StopTimes: []stopTimeRow{
			{TripID: "T1", StopID: "A", StopSequence: "not-a-number", ArrivalTime: "07:00:00", DepartureTime: "07:00:00"},
			{TripID: "T1", StopID: "B", StopSequence: "2", ArrivalTime: "bogus", DepartureTime: "07:30:00"},
		},
	}
	store, err := NewMemoryStore(feed, nil)
	require.NoError(t, err)

	_, ok := store.TripStops("T1")
	assert.False(t, ok)
}
