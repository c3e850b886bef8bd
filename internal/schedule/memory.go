package schedule

import (
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/gezmi/trailbus/internal/models"
)

// MemoryStore is the in-memory Store backend — all lookups are plain
// map access. Index building lives here rather than in the router so
// the router only ever talks to the Store interface.
type MemoryStore struct {
	stopName  map[models.StopID]string
	routeInfo map[models.RouteID]RouteInfo
	tripRoute map[models.TripID]models.RouteID

	stopDepartures map[models.StopID][]Departure
	tripStopSeq    map[models.TripID][]TripStop
}

// NewMemoryStore builds a MemoryStore from a date-filtered RawFeed. The
// feed's stop_times rows are the only O(n) work; everything else is a
// direct map build.
func NewMemoryStore(feed *RawFeed, log *zap.Logger) (*MemoryStore, error) {
	s := &MemoryStore{
		stopName:       make(map[models.StopID]string, len(feed.Stops)),
		routeInfo:      make(map[models.RouteID]RouteInfo, len(feed.Routes)),
		tripRoute:      make(map[models.TripID]models.RouteID, len(feed.Trips)),
		stopDepartures: make(map[models.StopID][]Departure),
		tripStopSeq:    make(map[models.TripID][]TripStop),
	}

	for _, stop := range feed.Stops {
		s.stopName[stop.StopID] = stop.StopName
	}

	agencyName := make(map[string]string, len(feed.Agencies))
	for _, a := range feed.Agencies {
		agencyName[a.AgencyID] = a.AgencyName
	}
	for _, r := range feed.Routes {
		s.routeInfo[r.RouteID] = RouteInfo{
			ShortName:  r.RouteShortName,
			AgencyName: agencyName[r.AgencyID],
		}
	}

	for _, t := range feed.Trips {
		s.tripRoute[t.TripID] = t.RouteID
	}

	for _, st := range feed.StopTimes {
		seq, err := strconv.Atoi(st.StopSequence)
		if err != nil {
			continue
		}
		arrSecs, err := timeToSeconds(st.ArrivalTime)
		if err != nil {
			continue
		}
		depSecs, err := timeToSeconds(st.DepartureTime)
		if err != nil {
			continue
		}

		s.stopDepartures[st.StopID] = append(s.stopDepartures[st.StopID], Departure{
			DepartureSecs: depSecs,
			TripID:        st.TripID,
			StopSequence:  seq,
		})
		s.tripStopSeq[st.TripID] = append(s.tripStopSeq[st.TripID], TripStop{
			StopID:        st.StopID,
			ArrivalSecs:   arrSecs,
			DepartureSecs: depSecs,
			StopSequence:  seq,
		})
	}

	for stopID, deps := range s.stopDepartures {
		sort.Slice(deps, func(i, j int) bool { return deps[i].DepartureSecs < deps[j].DepartureSecs })
		s.stopDepartures[stopID] = deps
	}
	for tripID, stops := range s.tripStopSeq {
		sort.Slice(stops, func(i, j int) bool { return stops[i].StopSequence < stops[j].StopSequence })
		s.tripStopSeq[tripID] = stops
	}

	if log != nil {
		log.Info("schedule store built",
			zap.Int("stops_with_departures", len(s.stopDepartures)),
			zap.Int("trips_indexed", len(s.tripStopSeq)),
		)
	}

	return s, nil
}

func (s *MemoryStore) StopDepartures(stopID models.StopID) ([]Departure, bool) {
	deps, ok := s.stopDepartures[stopID]
	return deps, ok
}

func (s *MemoryStore) TripStops(tripID models.TripID) ([]TripStop, bool) {
	stops, ok := s.tripStopSeq[tripID]
	return stops, ok
}

func (s *MemoryStore) StopName(stopID models.StopID) string {
	if name, ok := s.stopName[stopID]; ok {
		return name
	}
	return stopID
}

func (s *MemoryStore) TripRoute(tripID models.TripID) (models.RouteID, bool) {
	routeID, ok := s.tripRoute[tripID]
	return routeID, ok
}

func (s *MemoryStore) RouteInfo(routeID models.RouteID) (RouteInfo, bool) {
	info, ok := s.routeInfo[routeID]
	return info, ok
}

func (s *MemoryStore) Close() error { return nil }
