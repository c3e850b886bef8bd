package models

import "time"

// BusLeg is one leg of a transit journey. Departure/arrival carry
// day-overflow for trips that extend past midnight (see routing package).
type BusLeg struct {
	Line         string    `json:"line"`
	Operator     string    `json:"operator"`
	FromStopID   StopID    `json:"from_stop_id"`
	FromStopName string    `json:"from_stop_name"`
	ToStopID     StopID    `json:"to_stop_id"`
	ToStopName   string    `json:"to_stop_name"`
	DepartureTS  time.Time `json:"departure_ts"`
	ArrivalTS    time.Time `json:"arrival_ts"`
}

// HikeSegment is the hiking portion of a trip.
type HikeSegment struct {
	TrailName           string    `json:"trail_name"`
	EntryStopName       string    `json:"entry_stop_name"`
	ExitStopName        string    `json:"exit_stop_name,omitempty"`
	WalkToTrailM        float64   `json:"walk_to_trail_m"`
	WalkFromTrailM      float64   `json:"walk_from_trail_m,omitempty"`
	HikeStartTS         time.Time `json:"hike_start_ts"`
	HikeEndTS           time.Time `json:"hike_end_ts"`
	HikingHours         float64   `json:"hiking_hours"`
	EstimatedDistanceKM float64   `json:"estimated_distance_km"`
	IsLoop              bool      `json:"is_loop"`
	IsThroughHike       bool      `json:"is_through_hike"`
	Colors              []string  `json:"colors"`
	ElevationGainM      float64   `json:"elevation_gain_m"`
	ElevationLossM      float64   `json:"elevation_loss_m"`
}

// HikePlan is a complete plan: transit out + hike + transit back.
type HikePlan struct {
	Trail            Trail             `json:"trail"`
	EntryAccessPoint TrailAccessPoint  `json:"entry_access_point"`
	ExitAccessPoint  *TrailAccessPoint `json:"exit_access_point,omitempty"`
	OutboundLegs     []BusLeg          `json:"outbound_legs"`
	HikeSegment      HikeSegment       `json:"hike_segment"`
	ReturnLegs       []BusLeg          `json:"return_legs"`
	DepartureTS      time.Time         `json:"departure_ts"`
	ArrivalTS        time.Time         `json:"arrival_ts"`
	TotalHours       float64           `json:"total_hours"`
	HikingRatio      float64           `json:"hiking_ratio"`
	Deadline         time.Time         `json:"deadline"`
	Warnings         []string          `json:"warnings,omitempty"`
}

// HikeQuery is the user's query. LoopOnly and LinearOnly are mutually
// exclusive — validated at the planner boundary.
type HikeQuery struct {
	Origin            string
	Date              time.Time // date only; time-of-day is ignored
	MaxTransfers      int
	SafetyMarginHours float64
	MaxWalkToTrailM   int
	MinHikingHours    float64
	MaxResults        int
	EarliestDeparture *time.Time // nil -> 06:00 local
	Colors            []string
	MinDistanceKM     *float64
	MaxDistanceKM     *float64
	LoopOnly          bool
	LinearOnly        bool
	MaxElevationGainM *float64
	Difficulty        *string
}
