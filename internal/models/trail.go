package models

import "github.com/paulmach/orb"

// TrailAccessPoint is a transit stop within a walk budget of a trail,
// paired with its projection onto the trail polyline.
type TrailAccessPoint struct {
	StopID           StopID  `json:"stop_id"`
	StopName         string  `json:"stop_name"`
	WalkDistanceM    float64 `json:"walk_distance_m"`
	EntryLat         float64 `json:"trail_entry_lat"`
	EntryLon         float64 `json:"trail_entry_lon"`
	TrailKmFromStart float64 `json:"trail_km_from_start"`
}

// Trail is a hiking trail with geometry and metadata. Created by the
// external trail supplier; mutated only by the spatial join (to attach
// access points) and the elevation enricher (to fill elevation fields).
type Trail struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Source             string             `json:"source"`
	Geometry           orb.LineString     `json:"-"`
	DistanceKM         float64            `json:"distance_km"`
	ElevationGainM     float64            `json:"elevation_gain_m"`
	ElevationLossM     float64            `json:"elevation_loss_m"`
	MinElevationM      float64            `json:"min_elevation_m"`
	MaxElevationM      float64            `json:"max_elevation_m"`
	ElevationProfile   []float64          `json:"elevation_profile,omitempty"`
	Difficulty         string             `json:"difficulty"`
	Colors             []string           `json:"colors"`
	IsLoop             bool               `json:"is_loop"`
	RecommendedSeasons []string           `json:"recommended_seasons,omitempty"`
	SeasonWarnings     []string           `json:"season_warnings,omitempty"`
	AccessPoints       []TrailAccessPoint `json:"access_points,omitempty"`
}
