package schedule

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gezmi/trailbus/internal/models"
)

// proxyCacheMax is the max entries a bounded cache holds before it is
// cleared wholesale. A full clear (rather than LRU eviction) keeps the
// cache dead simple at the cost of the occasional cold burst.
const proxyCacheMax = 20_000

// DiskStore is the SQLite-backed Store — a small, bounded RAM footprint
// versus MemoryStore's everything-in-RAM index, at the cost of a query
// per cache miss. Each lookup table gets its own bounded cache.
type DiskStore struct {
	db *sql.DB

	stopNameCache  map[models.StopID]string
	tripRouteCache map[models.TripID]models.RouteID
	routeInfoCache map[models.RouteID]RouteInfo
	stopDepCache   map[models.StopID][]Departure
	tripStopCache  map[models.TripID][]TripStop
}

// OpenDiskStore opens an existing schedule database built by BuildDiskStore.
func OpenDiskStore(path string) (*DiskStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening schedule db: %w", err)
	}
	if _, err := db.Exec("PRAGMA cache_size=-20000"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA mmap_size=268435456"); err != nil {
		return nil, err
	}
	return &DiskStore{
		db:             db,
		stopNameCache:  make(map[models.StopID]string),
		tripRouteCache: make(map[models.TripID]models.RouteID),
		routeInfoCache: make(map[models.RouteID]RouteInfo),
		stopDepCache:   make(map[models.StopID][]Departure),
		tripStopCache:  make(map[models.TripID][]TripStop),
	}, nil
}

// BuildDiskStore creates a fresh schedule database at path from a
// date-filtered RawFeed, then opens it as a DiskStore. The on-disk
// artifact layout itself (where path lives, retention policy) is an
// external-collaborator concern; this only defines the schema and the
// load.
func BuildDiskStore(path string, feed *RawFeed) (*DiskStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("creating schedule db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS stops (stop_id TEXT PRIMARY KEY, stop_name TEXT)`,
		`CREATE TABLE IF NOT EXISTS routes (route_id TEXT PRIMARY KEY, short_name TEXT, agency_name TEXT)`,
		`CREATE TABLE IF NOT EXISTS trips (trip_id TEXT PRIMARY KEY, route_id TEXT)`,
		`CREATE TABLE IF NOT EXISTS stop_times (
			trip_id TEXT, stop_id TEXT, stop_sequence INTEGER,
			arrival_secs INTEGER, departure_secs INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stop_times_stop ON stop_times(stop_id, departure_secs)`,
		`CREATE INDEX IF NOT EXISTS idx_stop_times_trip ON stop_times(trip_id, stop_sequence)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}

	agencyName := make(map[string]string, len(feed.Agencies))
	for _, a := range feed.Agencies {
		agencyName[a.AgencyID] = a.AgencyName
	}

	insertStop, err := tx.Prepare(`INSERT OR REPLACE INTO stops (stop_id, stop_name) VALUES (?, ?)`)
	if err != nil {
		return nil, err
	}
	for _, s := range feed.Stops {
		if _, err := insertStop.Exec(s.StopID, s.StopName); err != nil {
			return nil, err
		}
	}
	insertStop.Close()

	insertRoute, err := tx.Prepare(`INSERT OR REPLACE INTO routes (route_id, short_name, agency_name) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	for _, r := range feed.Routes {
		if _, err := insertRoute.Exec(r.RouteID, r.RouteShortName, agencyName[r.AgencyID]); err != nil {
			return nil, err
		}
	}
	insertRoute.Close()

	insertTrip, err := tx.Prepare(`INSERT OR REPLACE INTO trips (trip_id, route_id) VALUES (?, ?)`)
	if err != nil {
		return nil, err
	}
	for _, t := range feed.Trips {
		if _, err := insertTrip.Exec(t.TripID, t.RouteID); err != nil {
			return nil, err
		}
	}
	insertTrip.Close()

	insertStopTime, err := tx.Prepare(`INSERT INTO stop_times
		(trip_id, stop_id, stop_sequence, arrival_secs, departure_secs) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	for _, st := range feed.StopTimes {
		seq, err := strconv.Atoi(st.StopSequence)
		if err != nil {
			continue
		}
		arr, err := timeToSeconds(st.ArrivalTime)
		if err != nil {
			continue
		}
		dep, err := timeToSeconds(st.DepartureTime)
		if err != nil {
			continue
		}
		if _, err := insertStopTime.Exec(st.TripID, st.StopID, seq, arr, dep); err != nil {
			return nil, err
		}
	}
	insertStopTime.Close()

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	db.Close()

	return OpenDiskStore(path)
}

func (s *DiskStore) StopDepartures(stopID models.StopID) ([]Departure, bool) {
	if deps, ok := s.stopDepCache[stopID]; ok {
		return deps, len(deps) > 0
	}
	rows, err := s.db.Query(
		`SELECT departure_secs, trip_id, stop_sequence FROM stop_times
		 WHERE stop_id = ? ORDER BY departure_secs`, stopID)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var deps []Departure
	for rows.Next() {
		var d Departure
		if err := rows.Scan(&d.DepartureSecs, &d.TripID, &d.StopSequence); err != nil {
			return nil, false
		}
		deps = append(deps, d)
	}

	if len(s.stopDepCache) > proxyCacheMax {
		s.stopDepCache = make(map[models.StopID][]Departure)
	}
	s.stopDepCache[stopID] = deps
	return deps, len(deps) > 0
}

func (s *DiskStore) TripStops(tripID models.TripID) ([]TripStop, bool) {
	if stops, ok := s.tripStopCache[tripID]; ok {
		return stops, len(stops) > 0
	}
	rows, err := s.db.Query(
		`SELECT stop_id, arrival_secs, departure_secs, stop_sequence FROM stop_times
		 WHERE trip_id = ? ORDER BY stop_sequence`, tripID)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var stops []TripStop
	for rows.Next() {
		var t TripStop
		if err := rows.Scan(&t.StopID, &t.ArrivalSecs, &t.DepartureSecs, &t.StopSequence); err != nil {
			return nil, false
		}
		stops = append(stops, t)
	}

	if len(s.tripStopCache) > proxyCacheMax {
		s.tripStopCache = make(map[models.TripID][]TripStop)
	}
	s.tripStopCache[tripID] = stops
	return stops, len(stops) > 0
}

func (s *DiskStore) StopName(stopID models.StopID) string {
	if name, ok := s.stopNameCache[stopID]; ok {
		return name
	}
	var name string
	err := s.db.QueryRow(`SELECT stop_name FROM stops WHERE stop_id = ?`, stopID).Scan(&name)
	if err != nil {
		name = stopID
	}
	if len(s.stopNameCache) > proxyCacheMax {
		s.stopNameCache = make(map[models.StopID]string)
	}
	s.stopNameCache[stopID] = name
	return name
}

func (s *DiskStore) TripRoute(tripID models.TripID) (models.RouteID, bool) {
	if routeID, ok := s.tripRouteCache[tripID]; ok {
		return routeID, routeID != ""
	}
	var routeID string
	err := s.db.QueryRow(`SELECT route_id FROM trips WHERE trip_id = ?`, tripID).Scan(&routeID)
	ok := err == nil
	if len(s.tripRouteCache) > proxyCacheMax {
		s.tripRouteCache = make(map[models.TripID]models.RouteID)
	}
	s.tripRouteCache[tripID] = routeID
	return routeID, ok
}

func (s *DiskStore) RouteInfo(routeID models.RouteID) (RouteInfo, bool) {
	if info, ok := s.routeInfoCache[routeID]; ok {
		return info, true
	}
	var info RouteInfo
	err := s.db.QueryRow(`SELECT short_name, agency_name FROM routes WHERE route_id = ?`, routeID).
		Scan(&info.ShortName, &info.AgencyName)
	if err != nil {
		return RouteInfo{}, false
	}
	if len(s.routeInfoCache) > proxyCacheMax {
		s.routeInfoCache = make(map[models.RouteID]RouteInfo)
	}
	s.routeInfoCache[routeID] = info
	return info, true
}

func (s *DiskStore) Close() error {
	return s.db.Close()
}
