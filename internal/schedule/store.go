// Package schedule indexes a GTFS feed, already filtered to one service
// date, into the two lookup structures the router needs: stop_id ->
// sorted departures, and trip_id -> ordered stop sequence. Store is the
// shared interface; MemoryStore is the fast all-in-RAM backend, and
// DiskStore is the bounded-cache SQLite backend for feeds too large to
// hold comfortably in memory.
package schedule

import "github.com/gezmi/trailbus/internal/models"

// Departure is one scheduled departure from a stop, as indexed by
// stop_id. Sorted ascending by DepartureSecs within a stop's slice.
type Departure struct {
	DepartureSecs int
	TripID        models.TripID
	StopSequence  int
}

// TripStop is one stop visit within a trip's ordered sequence. Sorted
// ascending by StopSequence within a trip's slice.
type TripStop struct {
	StopID        models.StopID
	ArrivalSecs   int
	DepartureSecs int
	StopSequence  int
}

// RouteInfo is the denormalised (short_name, agency_name) pair for a route.
type RouteInfo struct {
	ShortName  string
	AgencyName string
}

// Store is the read-only index the router queries. Both backends
// (MemoryStore, DiskStore) implement it identically from the router's
// point of view; only the cost profile differs.
type Store interface {
	// StopDepartures returns the departures from a stop, sorted by
	// DepartureSecs, or ok=false if the stop has none indexed.
	StopDepartures(stopID models.StopID) (deps []Departure, ok bool)

	// TripStops returns a trip's stop sequence, sorted by StopSequence,
	// or ok=false if the trip is unknown.
	TripStops(tripID models.TripID) (stops []TripStop, ok bool)

	// StopName returns a stop's display name, or the stop ID itself if
	// the stop is unknown.
	StopName(stopID models.StopID) string

	// TripRoute returns the route a trip belongs to.
	TripRoute(tripID models.TripID) (routeID models.RouteID, ok bool)

	// RouteInfo returns a route's short name and agency name.
	RouteInfo(routeID models.RouteID) (info RouteInfo, ok bool)

	// Close releases any underlying resources (file handles, connections).
	// MemoryStore's Close is a no-op.
	Close() error
}
