// Package models holds the pure data records shared by every component:
// schedule rows, trails, bus legs, and the composed hike plans.
package models

// StopID, RouteID and TripID are opaque GTFS identifiers. They stay as
// strings (not ints) because upstream feeds use alphanumeric codes.
type StopID = string
type RouteID = string
type TripID = string

// Stop is a single transit stop. Immutable after ingestion.
type Stop struct {
	ID   StopID  `json:"stop_id"`
	Name string  `json:"stop_name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Route denormalises the agency name onto the route so routing doesn't
// need a second lookup on the hot path.
type Route struct {
	ID         RouteID `json:"route_id"`
	ShortName  string  `json:"short_name"`
	AgencyName string  `json:"agency_name"`
}

// Trip is a single vehicle run on the chosen date.
type Trip struct {
	ID      TripID  `json:"trip_id"`
	RouteID RouteID `json:"route_id"`
}

// StopTime is a single stop visit within a trip. Per-trip invariant:
// StopSequence strictly increases and ArrivalSecs <= DepartureSecs.
type StopTime struct {
	TripID        TripID `json:"trip_id"`
	StopID        StopID `json:"stop_id"`
	StopSequence  int    `json:"stop_sequence"`
	ArrivalSecs   int    `json:"arrival_secs"`
	DepartureSecs int    `json:"departure_secs"`
}
