package routing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezmi/trailbus/internal/models"
	"github.com/gezmi/trailbus/internal/routing"
	"github.com/gezmi/trailbus/internal/schedule"
)

// fakeStore is a hand-built Store for exercising the router in
// isolation, maps filled inline per test, no fixture loader.
type fakeStore struct {
	departures map[models.StopID][]schedule.Departure
	tripStops  map[models.TripID][]schedule.TripStop
	tripRoute  map[models.TripID]models.RouteID
	routeInfo  map[models.RouteID]schedule.RouteInfo
	stopNames  map[models.StopID]string
}

func (s *fakeStore) StopDepartures(id models.StopID) ([]schedule.Departure, bool) {
	d, ok := s.departures[id]
	return d, ok
}
func (s *fakeStore) TripStops(id models.TripID) ([]schedule.TripStop, bool) {
	t, ok := s.tripStops[id]
	return t, ok
}
func (s *fakeStore) StopName(id models.StopID) string {
	if n, ok := s.stopNames[id]; ok {
		return n
	}
	return string(id)
}
func (s *fakeStore) TripRoute(id models.TripID) (models.RouteID, bool) {
	r, ok := s.tripRoute[id]
	return r, ok
}
func (s *fakeStore) RouteInfo(id models.RouteID) (schedule.RouteInfo, bool) {
	r, ok := s.routeInfo[id]
	return r, ok
}
func (s *fakeStore) Close() error { return nil }

func newFakeStore() *fakeStore {
	return &fakeStore{
		departures: map[models.StopID][]schedule.Departure{},
		tripStops:  map[models.TripID][]schedule.TripStop{},
		tripRoute:  map[models.TripID]models.RouteID{"T1": "R1", "T2": "R2"},
		routeInfo: map[models.RouteID]schedule.RouteInfo{
			"R1": {ShortName: "1", AgencyName: "Egged"},
			"R2": {ShortName: "2", AgencyName: "Egged"},
		},
		stopNames: map[models.StopID]string{
			"origin": "Rehovot Central", "mid": "Junction", "trail": "Trail Entrance",
		},
	}
}

func TestFindOutbound_DirectTrip(t *testing.T) {
	store := newFakeStore()
	store.departures["origin"] = []schedule.Departure{{DepartureSecs: 7 * 3600, TripID: "T1", StopSequence: 1}}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "origin", ArrivalSecs: 7 * 3600, DepartureSecs: 7 * 3600, StopSequence: 1},
		{StopID: "trail", ArrivalSecs: 7*3600 + 1800, DepartureSecs: 7*3600 + 1800, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	legs := r.FindOutbound([]models.StopID{"origin"}, []models.StopID{"trail"}, 6*3600)

	require.Len(t, legs, 1)
	assert.Equal(t, models.StopID("origin"), legs[0].FromStopID)
	assert.Equal(t, models.StopID("trail"), legs[0].ToStopID)
	assert.Equal(t, "Rehovot Central", legs[0].FromStopName)
}

func TestFindOutbound_OneTransfer(t *testing.T) {
	store := newFakeStore()
	store.departures["origin"] = []schedule.Departure{{DepartureSecs: 7 * 3600, TripID: "T1", StopSequence: 1}}
	store.departures["mid"] = []schedule.Departure{{DepartureSecs: 7*3600 + 1900, TripID: "T2", StopSequence: 1}}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "origin", ArrivalSecs: 7 * 3600, DepartureSecs: 7 * 3600, StopSequence: 1},
		{StopID: "mid", ArrivalSecs: 7*3600 + 1800, DepartureSecs: 7*3600 + 1800, StopSequence: 2},
	}
	store.tripStops["T2"] = []schedule.TripStop{
		{StopID: "mid", ArrivalSecs: 7*3600 + 1900, DepartureSecs: 7*3600 + 1900, StopSequence: 1},
		{StopID: "trail", ArrivalSecs: 7*3600 + 2700, DepartureSecs: 7*3600 + 2700, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	legs := r.FindOutbound([]models.StopID{"origin"}, []models.StopID{"trail"}, 6*3600)

	require.Len(t, legs, 2)
	assert.Equal(t, models.StopID("mid"), legs[0].ToStopID)
	assert.Equal(t, models.StopID("mid"), legs[1].FromStopID)
	assert.Equal(t, models.StopID("trail"), legs[1].ToStopID)
}

func TestFindOutbound_NoServiceReturnsNil(t *testing.T) {
	store := newFakeStore()
	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	assert.Nil(t, r.FindOutbound([]models.StopID{"origin"}, []models.StopID{"trail"}, 6*3600))
}

func TestFindReturn_RespectsDeadline(t *testing.T) {
	store := newFakeStore()
	store.departures["trail"] = []schedule.Departure{
		{DepartureSecs: 16 * 3600, TripID: "T1", StopSequence: 1},
		{DepartureSecs: 18 * 3600, TripID: "T1", StopSequence: 1}, // too late
	}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "trail", ArrivalSecs: 16 * 3600, DepartureSecs: 16 * 3600, StopSequence: 1},
		{StopID: "origin", ArrivalSecs: 16*3600 + 1800, DepartureSecs: 16*3600 + 1800, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	deadlineSecs := 17 * 3600
	legs := r.FindReturn([]models.StopID{"trail"}, []models.StopID{"origin"}, deadlineSecs)

	require.Len(t, legs, 1)
	assert.Equal(t, models.StopID("trail"), legs[0].FromStopID)
	assert.True(t, legs[0].ArrivalTS.Before(time.Date(2026, 7, 31, 17, 0, 0, 0, time.UTC).Add(time.Second)))
}

func TestFindReturn_PicksLatestDeparture(t *testing.T) {
	store := newFakeStore()
	store.departures["trail"] = []schedule.Departure{
		{DepartureSecs: 14 * 3600, TripID: "T1", StopSequence: 1},
		{DepartureSecs: 16 * 3600, TripID: "T1", StopSequence: 1},
	}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "trail", ArrivalSecs: 14 * 3600, DepartureSecs: 14 * 3600, StopSequence: 1},
		{StopID: "origin", ArrivalSecs: 14*3600 + 1800, DepartureSecs: 14*3600 + 1800, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	legs := r.FindReturn([]models.StopID{"trail"}, []models.StopID{"origin"}, 20*3600)

	require.Len(t, legs, 1)
	assert.Equal(t, 16*3600, int(legs[0].DepartureTS.Sub(time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)).Seconds()))
}

func TestSecondsToTime_RollsOverPastMidnight(t *testing.T) {
	store := newFakeStore()
	store.departures["origin"] = []schedule.Departure{{DepartureSecs: 25 * 3600, TripID: "T1", StopSequence: 1}}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "origin", ArrivalSecs: 25 * 3600, DepartureSecs: 25 * 3600, StopSequence: 1},
		{StopID: "trail", ArrivalSecs: 25*3600 + 600, DepartureSecs: 25*3600 + 600, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))
	legs := r.FindOutbound([]models.StopID{"origin"}, []models.StopID{"trail"}, 0)

	require.Len(t, legs, 1)
	assert.Equal(t, time.August, legs[0].DepartureTS.Month())
	assert.Equal(t, 1, legs[0].DepartureTS.Day())
	assert.Equal(t, 1, legs[0].DepartureTS.Hour())
}

func TestFindOutbound_MonotonicInEarliestDeparture(t *testing.T) {
	store := newFakeStore()
	store.departures["origin"] = []schedule.Departure{
		{DepartureSecs: 7 * 3600, TripID: "T1", StopSequence: 1},
		{DepartureSecs: 9 * 3600, TripID: "T2", StopSequence: 1},
	}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "origin", ArrivalSecs: 7 * 3600, DepartureSecs: 7 * 3600, StopSequence: 1},
		{StopID: "trail", ArrivalSecs: 8 * 3600, DepartureSecs: 8 * 3600, StopSequence: 2},
	}
	store.tripStops["T2"] = []schedule.TripStop{
		{StopID: "origin", ArrivalSecs: 9 * 3600, DepartureSecs: 9 * 3600, StopSequence: 1},
		{StopID: "trail", ArrivalSecs: 10 * 3600, DepartureSecs: 10 * 3600, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))

	early := r.FindOutbound([]models.StopID{"origin"}, []models.StopID{"trail"}, 6*3600)
	late := r.FindOutbound([]models.StopID{"origin"}, []models.StopID{"trail"}, 8*3600)

	require.Len(t, early, 1)
	require.Len(t, late, 1)
	assert.False(t, late[0].ArrivalTS.Before(early[0].ArrivalTS))
}

func TestFindReturn_MonotonicInDeadline(t *testing.T) {
	store := newFakeStore()
	store.departures["trail"] = []schedule.Departure{
		{DepartureSecs: 14 * 3600, TripID: "T1", StopSequence: 1},
		{DepartureSecs: 16 * 3600, TripID: "T2", StopSequence: 1},
	}
	store.tripStops["T1"] = []schedule.TripStop{
		{StopID: "trail", ArrivalSecs: 14 * 3600, DepartureSecs: 14 * 3600, StopSequence: 1},
		{StopID: "origin", ArrivalSecs: 15 * 3600, DepartureSecs: 15 * 3600, StopSequence: 2},
	}
	store.tripStops["T2"] = []schedule.TripStop{
		{StopID: "trail", ArrivalSecs: 16 * 3600, DepartureSecs: 16 * 3600, StopSequence: 1},
		{StopID: "origin", ArrivalSecs: 17 * 3600, DepartureSecs: 17 * 3600, StopSequence: 2},
	}

	r := routing.New(store, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC))

	loose := r.FindReturn([]models.StopID{"trail"}, []models.StopID{"origin"}, 18*3600)
	tight := r.FindReturn([]models.StopID{"trail"}, []models.StopID{"origin"}, 15*3600)

	require.Len(t, loose, 1)
	require.Len(t, tight, 1)
	assert.False(t, tight[0].DepartureTS.After(loose[0].DepartureTS))
}
