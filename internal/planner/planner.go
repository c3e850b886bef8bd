// Package planner composes transit routing, the trail access-point join,
// and Naismith's-rule hiking-time estimates into ranked HikePlans.
// The pipeline is prepare-once, query-many: load the schedule, join
// trails to stops, resolve the day's deadline, then plan per origin.
package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/models"
	"github.com/gezmi/trailbus/internal/routing"
	"github.com/gezmi/trailbus/internal/schedule"
	"github.com/gezmi/trailbus/internal/spatial"
)

// Context is the pre-loaded, origin-independent data needed to plan
// hikes: the schedule-backed router, the trail set (already joined to
// stops), and the day's deadline. Built once via Prepare, then queried
// many times via PlanHikesForOrigin — one per origin.
type Context struct {
	Store        schedule.Store
	Stops        []models.Stop
	Router       *routing.Router
	Trails       []models.Trail
	Date         time.Time
	Deadline     time.Time
	DeadlineSecs int
}

// Prepare builds a Context from an already date-filtered store and stop
// list, a list of candidate trails (already enriched with geometry and
// elevation by the trail/elevation packages), and the resolved deadline.
// It applies the global distance cap and runs the spatial join for trails
// that don't already carry access points; GTFS/OSM acquisition belongs to
// external collaborators and happens before this call. User filters are
// NOT applied here: the Context is query-independent and reused across
// origins.
func Prepare(store schedule.Store, stops []models.Stop, date time.Time, deadline time.Time, rawTrails []models.Trail, maxWalkToTrailM int) (*Context, error) {
	router := routing.New(store, date)

	if maxWalkToTrailM <= 0 {
		maxWalkToTrailM = config.MaxWalkToTrailM
	}

	trails := make([]models.Trail, 0, len(rawTrails))
	for _, t := range rawTrails {
		if t.DistanceKM <= config.MaxTrailDistanceKM {
			trails = append(trails, t)
		}
	}

	// Pre-processed trail indexes already carry access points; only
	// freshly fetched trails need the join.
	var ready, fresh []models.Trail
	for _, t := range trails {
		if len(t.AccessPoints) > 0 {
			ready = append(ready, t)
		} else {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) > 0 {
		idx := spatial.BuildStopIndex(stops)
		ready = append(ready, spatial.BuildTrailAccessPoints(fresh, idx, maxWalkToTrailM)...)
	}
	trails = ready

	return &Context{
		Store:        store,
		Stops:        stops,
		Router:       router,
		Trails:       trails,
		Date:         date,
		Deadline:     deadline,
		DeadlineSecs: secondsSinceMidnight(deadline),
	}, nil
}

// FilterTrails applies the user-specified filters from HikeQuery: color,
// min/max distance, loop/linear, max elevation gain, difficulty.
func FilterTrails(trails []models.Trail, query models.HikeQuery) []models.Trail {
	result := trails

	if len(query.Colors) > 0 {
		wanted := make(map[string]bool, len(query.Colors))
		for _, c := range query.Colors {
			wanted[strings.ToLower(c)] = true
		}
		result = filterTrails(result, func(t models.Trail) bool {
			for _, c := range t.Colors {
				if wanted[strings.ToLower(c)] {
					return true
				}
			}
			return false
		})
	}

	if query.MinDistanceKM != nil {
		min := *query.MinDistanceKM
		result = filterTrails(result, func(t models.Trail) bool { return t.DistanceKM >= min })
	}
	if query.MaxDistanceKM != nil {
		max := *query.MaxDistanceKM
		result = filterTrails(result, func(t models.Trail) bool { return t.DistanceKM <= max })
	}
	if query.LoopOnly {
		result = filterTrails(result, func(t models.Trail) bool { return t.IsLoop })
	}
	if query.LinearOnly {
		result = filterTrails(result, func(t models.Trail) bool { return !t.IsLoop })
	}
	if query.MaxElevationGainM != nil {
		max := *query.MaxElevationGainM
		result = filterTrails(result, func(t models.Trail) bool { return t.ElevationGainM <= max })
	}
	if query.Difficulty != nil {
		want := strings.ToLower(*query.Difficulty)
		result = filterTrails(result, func(t models.Trail) bool { return strings.ToLower(t.Difficulty) == want })
	}

	return result
}

func filterTrails(trails []models.Trail, keep func(models.Trail) bool) []models.Trail {
	out := make([]models.Trail, 0, len(trails))
	for _, t := range trails {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// ResolveOrigin looks up a city name in config.CityCoordinates,
// case/whitespace-insensitively.
func ResolveOrigin(origin string) (lat, lon float64, err error) {
	key := strings.ToLower(strings.TrimSpace(origin))
	coords, ok := config.CityCoordinates[key]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", models.ErrUnknownOrigin, origin)
	}
	return coords[0], coords[1], nil
}

func secondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func estimateHikeTimeHours(distanceKM, elevationGainM float64) float64 {
	return distanceKM/config.NaismithSpeedKMH + elevationGainM/config.NaismithClimbFactor
}

func walkTimeHours(distanceM float64) float64 {
	return (distanceM / 1000.0) / config.WalkSpeedKMH
}

// rainyMonths are the months a desert trail's season warning actually
// fires for.
var rainyMonths = map[time.Month]bool{
	time.November: true, time.December: true, time.January: true,
	time.February: true, time.March: true,
}

// PlanHikesForOrigin finds every viable hike plan reachable from origin
// within ctx's trail set, ranked by hiking ratio descending, truncated
// to query.MaxResults. It resolves the origin city to coordinates, finds
// nearby stops via ctx.Stops, then plans every trail that survives the
// query's filters against those stops.
func PlanHikesForOrigin(ctx *Context, query models.HikeQuery) ([]models.HikePlan, error) {
	if query.LoopOnly && query.LinearOnly {
		return nil, fmt.Errorf("%w: loop_only and linear_only are mutually exclusive", models.ErrInvalidQuery)
	}

	lat, lon, err := ResolveOrigin(query.Origin)
	if err != nil {
		return nil, err
	}

	originStopIDs := schedule.FindOriginStops(ctx.Stops, lat, lon, config.StopSearchRadiusM)
	if len(originStopIDs) == 0 {
		return nil, nil
	}

	earliestDepSecs := config.DefaultEarliestDeparture.Hour()*3600 + config.DefaultEarliestDeparture.Minute()*60
	if query.EarliestDeparture != nil {
		earliestDepSecs = secondsSinceMidnight(*query.EarliestDeparture)
	}

	var plans []models.HikePlan
	for _, trail := range FilterTrails(ctx.Trails, query) {
		plans = append(plans, planSingleTrail(trail, ctx, query, originStopIDs, earliestDepSecs)...)
	}

	sort.SliceStable(plans, func(i, j int) bool { return plans[i].HikingRatio > plans[j].HikingRatio })

	if query.MaxResults >= 0 && len(plans) > query.MaxResults {
		plans = plans[:query.MaxResults]
	}
	return plans, nil
}

func planSingleTrail(trail models.Trail, ctx *Context, query models.HikeQuery, originStopIDs []models.StopID, earliestDepSecs int) []models.HikePlan {
	var results []models.HikePlan

	var bestOAB *models.HikePlan
	for _, ap := range trail.AccessPoints {
		plan := planAccessPoint(trail, ap, ctx, query, originStopIDs, earliestDepSecs)
		if plan == nil {
			continue
		}
		if bestOAB == nil || plan.HikingRatio > bestOAB.HikingRatio {
			bestOAB = plan
		}
	}
	if bestOAB != nil {
		results = append(results, *bestOAB)
	}

	if !trail.IsLoop && len(trail.AccessPoints) >= 2 {
		var bestThrough *models.HikePlan
		aps := trail.AccessPoints
		for i := range aps {
			for j := range aps {
				if i == j {
					continue
				}
				entry, exit := aps[i], aps[j]
				segmentKM := absFloat(exit.TrailKmFromStart - entry.TrailKmFromStart)
				if segmentKM < config.ThroughHikeMinDistanceKM || segmentKM > config.ThroughHikeMaxDistanceKM {
					continue
				}
				plan := planThroughHike(trail, entry, exit, segmentKM, ctx, query, originStopIDs, earliestDepSecs)
				if plan == nil {
					continue
				}
				if bestThrough == nil || plan.HikingRatio > bestThrough.HikingRatio {
					bestThrough = plan
				}
			}
		}
		if bestThrough != nil {
			results = append(results, *bestThrough)
		}
	}

	return results
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func (ctx *Context) secondsToTime(secs int) time.Time {
	daysOffset := secs / 86400
	remaining := secs % 86400
	base := time.Date(ctx.Date.Year(), ctx.Date.Month(), ctx.Date.Day(), 0, 0, 0, 0, ctx.Date.Location())
	return base.AddDate(0, 0, daysOffset).Add(time.Duration(remaining) * time.Second)
}

func seasonWarningsFor(trail models.Trail, date time.Time) []string {
	if len(trail.SeasonWarnings) > 0 && rainyMonths[date.Month()] {
		return append([]string(nil), trail.SeasonWarnings...)
	}
	return nil
}

// planAccessPoint tries to build a plan through a single access point,
// serving either an out-and-back hike or a full loop.
func planAccessPoint(trail models.Trail, ap models.TrailAccessPoint, ctx *Context, query models.HikeQuery, originStopIDs []models.StopID, earliestDepSecs int) *models.HikePlan {
	trailStops := []models.StopID{ap.StopID}

	returnLegs := ctx.Router.FindReturn(trailStops, originStopIDs, ctx.DeadlineSecs)
	if returnLegs == nil {
		return nil
	}

	returnDepSecs := secondsSinceMidnight(returnLegs[0].DepartureTS)
	walkBackSecs := walkTimeHours(ap.WalkDistanceM) * 3600
	hikeEndSecs := float64(returnDepSecs) - walkBackSecs
	if hikeEndSecs <= float64(earliestDepSecs) {
		return nil
	}

	outboundLegs := ctx.Router.FindOutbound(originStopIDs, []models.StopID{ap.StopID}, earliestDepSecs)
	if outboundLegs == nil {
		return nil
	}

	outboundArrSecs := secondsSinceMidnight(outboundLegs[len(outboundLegs)-1].ArrivalTS)
	walkToSecs := walkTimeHours(ap.WalkDistanceM) * 3600
	hikeStartSecs := float64(outboundArrSecs) + walkToSecs
	if hikeStartSecs >= hikeEndSecs {
		return nil
	}

	hikingWindowHours := (hikeEndSecs - hikeStartSecs) / 3600.0
	estimatedTime := estimateHikeTimeHours(trail.DistanceKM, trail.ElevationGainM)

	var actualHikingHours, estimatedDistance float64
	if trail.IsLoop {
		if hikingWindowHours < estimatedTime {
			return nil
		}
		actualHikingHours = estimatedTime
		estimatedDistance = trail.DistanceKM
	} else {
		halfWindow := hikingWindowHours / 2.0
		effectiveSpeed := config.NaismithSpeedKMH
		if estimatedTime > 0 {
			effectiveSpeed = trail.DistanceKM / estimatedTime
		}
		maxOneWayKM := halfWindow * effectiveSpeed
		oneWayKM := maxOneWayKM
		if trail.DistanceKM < oneWayKM {
			oneWayKM = trail.DistanceKM
		}
		estimatedDistance = oneWayKM * 2
		if effectiveSpeed > 0 {
			actualHikingHours = estimatedDistance / effectiveSpeed
		}
	}

	if actualHikingHours < query.MinHikingHours {
		return nil
	}

	hikeStartDT := ctx.secondsToTime(int(hikeStartSecs))
	hikeEndDT := ctx.secondsToTime(int(hikeEndSecs))

	departureFromOrigin := outboundLegs[0].DepartureTS
	arrivalAtOrigin := returnLegs[len(returnLegs)-1].ArrivalTS

	totalHours := arrivalAtOrigin.Sub(departureFromOrigin).Hours()
	var hikingRatio float64
	if totalHours > 0 {
		hikingRatio = actualHikingHours / totalHours
	}

	segment := models.HikeSegment{
		TrailName:           trail.Name,
		EntryStopName:       ap.StopName,
		WalkToTrailM:        ap.WalkDistanceM,
		HikeStartTS:         hikeStartDT,
		HikeEndTS:           hikeEndDT,
		HikingHours:         actualHikingHours,
		EstimatedDistanceKM: estimatedDistance,
		IsLoop:              trail.IsLoop,
		Colors:              trail.Colors,
	}

	return &models.HikePlan{
		Trail:            trail,
		EntryAccessPoint: ap,
		OutboundLegs:     outboundLegs,
		HikeSegment:      segment,
		ReturnLegs:       returnLegs,
		DepartureTS:      departureFromOrigin,
		ArrivalTS:        arrivalAtOrigin,
		TotalHours:       totalHours,
		HikingRatio:      hikingRatio,
		Deadline:         ctx.Deadline,
		Warnings:         seasonWarningsFor(trail, ctx.Date),
	}
}

// planThroughHike tries to build a through-hike plan entering at
// entryAP and exiting at exitAP.
func planThroughHike(trail models.Trail, entryAP, exitAP models.TrailAccessPoint, segmentKM float64, ctx *Context, query models.HikeQuery, originStopIDs []models.StopID, earliestDepSecs int) *models.HikePlan {
	returnLegs := ctx.Router.FindReturn([]models.StopID{exitAP.StopID}, originStopIDs, ctx.DeadlineSecs)
	if returnLegs == nil {
		return nil
	}

	returnDepSecs := secondsSinceMidnight(returnLegs[0].DepartureTS)
	walkFromTrailSecs := walkTimeHours(exitAP.WalkDistanceM) * 3600
	hikeEndSecs := float64(returnDepSecs) - walkFromTrailSecs
	if hikeEndSecs <= float64(earliestDepSecs) {
		return nil
	}

	outboundLegs := ctx.Router.FindOutbound(originStopIDs, []models.StopID{entryAP.StopID}, earliestDepSecs)
	if outboundLegs == nil {
		return nil
	}

	outboundArrSecs := secondsSinceMidnight(outboundLegs[len(outboundLegs)-1].ArrivalTS)
	walkToTrailSecs := walkTimeHours(entryAP.WalkDistanceM) * 3600
	hikeStartSecs := float64(outboundArrSecs) + walkToTrailSecs
	if hikeStartSecs >= hikeEndSecs {
		return nil
	}

	var segElevationGain float64
	if trail.DistanceKM > 0 {
		segElevationGain = trail.ElevationGainM * (segmentKM / trail.DistanceKM)
	}
	estimatedTime := estimateHikeTimeHours(segmentKM, segElevationGain)

	hikingWindowHours := (hikeEndSecs - hikeStartSecs) / 3600.0
	if hikingWindowHours < estimatedTime {
		return nil
	}

	actualHikingHours := estimatedTime
	if actualHikingHours < query.MinHikingHours {
		return nil
	}

	hikeStartDT := ctx.secondsToTime(int(hikeStartSecs))
	hikeEndDT := ctx.secondsToTime(int(hikeEndSecs))

	departureFromOrigin := outboundLegs[0].DepartureTS
	arrivalAtOrigin := returnLegs[len(returnLegs)-1].ArrivalTS

	totalHours := arrivalAtOrigin.Sub(departureFromOrigin).Hours()
	var hikingRatio float64
	if totalHours > 0 {
		hikingRatio = actualHikingHours / totalHours
	}

	var segElevationLoss float64
	if trail.DistanceKM > 0 {
		segElevationLoss = trail.ElevationLossM * (segmentKM / trail.DistanceKM)
	}

	segment := models.HikeSegment{
		TrailName:           trail.Name,
		EntryStopName:       entryAP.StopName,
		ExitStopName:        exitAP.StopName,
		WalkToTrailM:        entryAP.WalkDistanceM,
		WalkFromTrailM:      exitAP.WalkDistanceM,
		HikeStartTS:         hikeStartDT,
		HikeEndTS:           hikeEndDT,
		HikingHours:         actualHikingHours,
		EstimatedDistanceKM: segmentKM,
		IsLoop:              false,
		IsThroughHike:       true,
		Colors:              trail.Colors,
		ElevationGainM:      round1(segElevationGain),
		ElevationLossM:      round1(segElevationLoss),
	}

	exitAPCopy := exitAP
	return &models.HikePlan{
		Trail:            trail,
		EntryAccessPoint: entryAP,
		ExitAccessPoint:  &exitAPCopy,
		OutboundLegs:     outboundLegs,
		HikeSegment:      segment,
		ReturnLegs:       returnLegs,
		DepartureTS:      departureFromOrigin,
		ArrivalTS:        arrivalAtOrigin,
		TotalHours:       totalHours,
		HikingRatio:      hikingRatio,
		Deadline:         ctx.Deadline,
		Warnings:         seasonWarningsFor(trail, ctx.Date),
	}
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
