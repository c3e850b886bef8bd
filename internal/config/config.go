// Package config holds tunable constants for the trail-by-bus planner:
// search radii, Naismith's rule constants, and the known origin cities.
// Nothing here is env- or flag-driven; callers that need different
// values pass them explicitly.
package config

import "time"

// Routing / search tunables.
const (
	MaxWalkToTrailM        = 1000
	StopSearchRadiusM      = 500
	DedupTrailDistanceM    = 200.0
	MaxTrailDistanceKM     = 30.0
	MinTransferSecs        = 60
	MaxIntermediateStops   = 30
	MaxConnectingDepartures = 10
	MaxReturnDepartures    = 10
)

// Hiking pace constants (Naismith's rule).
const (
	NaismithSpeedKMH    = 4.0
	NaismithClimbFactor = 600.0 // meters of climb per hour
	WalkSpeedKMH        = 4.5
	MinHikingHours      = 1.0
)

// Through-hike segment bounds.
const (
	ThroughHikeMinDistanceKM = 3.0
	ThroughHikeMaxDistanceKM = 20.0
)

// Deadline defaults.
const (
	SafetyMarginHours       = 2.0
	DefaultLatestReturnHour = 18 // weekday deadline hour, local time
)

// DefaultEarliestDeparture is used when a query doesn't specify one.
var DefaultEarliestDeparture = time.Date(0, 1, 1, 6, 0, 0, 0, time.UTC)

// SRTM elevation sampling.
const SRTMSampleIntervalM = 50.0

// EarthRadiusMeters is used throughout the geo package for haversine distance.
const EarthRadiusMeters = 6_371_000.0

// CityCoordinates maps a lower-cased city name to (lat, lon), anchored
// on each city's central bus/train station area.
var CityCoordinates = map[string][2]float64{
	"rehovot":       {31.8928, 34.8113},
	"jerusalem":     {31.7892, 35.2033},
	"tel aviv":      {32.0564, 34.7796},
	"haifa":         {32.7940, 34.9896},
	"beer sheva":    {31.2430, 34.7932},
	"netanya":       {32.3215, 34.8532},
	"herzliya":      {32.1629, 34.8447},
	"petah tikva":   {32.0868, 34.8867},
	"rishon lezion": {31.9642, 34.8048},
	"ashdod":        {31.8014, 34.6435},
}
