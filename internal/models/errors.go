package models

import "errors"

// Sentinel error kinds. "No itinerary" and "missing index entry" never
// surface as errors at all — they're coerced to an absent (nil/ok-false)
// return at the call site — so only the caller-visible kinds live here,
// where every component can compare against the same values.
var (
	// ErrUnknownOrigin is returned when a query names a city not in
	// config.CityCoordinates.
	ErrUnknownOrigin = errors.New("unknown origin city")

	// ErrInvalidQuery covers loop_only && linear_only and malformed dates.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrSaturdayNotSupported is raised by the deadline supplier.
	ErrSaturdayNotSupported = errors.New("saturday hiking not supported")

	// ErrFeedUnavailable is fatal at prepare time.
	ErrFeedUnavailable = errors.New("transit feed unavailable")
)
