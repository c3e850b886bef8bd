// Package routing finds the earliest-arriving outbound journey and the
// latest-departing return journey between two stop sets, allowing at
// most one transfer. A bisect-pruned scan over per-stop departure lists
// is enough here — the planner only ever needs a single origin->trail or
// trail->origin query, never an all-pairs table, so a full multi-round
// RAPTOR sweep would buy nothing.
package routing

import (
	"sort"
	"time"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/models"
	"github.com/gezmi/trailbus/internal/schedule"
)

// Router answers outbound/return journey queries against a single
// service-date's Store.
type Router struct {
	store schedule.Store
	date  time.Time // the service date; journeys roll over past midnight
}

// New builds a Router over an already date-filtered Store.
func New(store schedule.Store, date time.Time) *Router {
	return &Router{store: store, date: date}
}

// leg is the raw form of one BusLeg, kept as plain fields until the
// final journey is chosen so building intermediate candidates stays cheap.
type leg struct {
	tripID      models.TripID
	fromStopID  models.StopID
	fromDepSecs int
	toStopID    models.StopID
	toArrSecs   int
}

func (r *Router) secondsToTime(secs int) time.Time {
	daysOffset := secs / 86400
	remaining := secs % 86400
	base := time.Date(r.date.Year(), r.date.Month(), r.date.Day(), 0, 0, 0, 0, r.date.Location())
	return base.AddDate(0, 0, daysOffset).Add(time.Duration(remaining) * time.Second)
}

func (r *Router) makeBusLeg(l leg) models.BusLeg {
	routeID, _ := r.store.TripRoute(l.tripID)
	info, _ := r.store.RouteInfo(routeID)
	return models.BusLeg{
		Line:         info.ShortName,
		Operator:     info.AgencyName,
		FromStopID:   l.fromStopID,
		FromStopName: r.store.StopName(l.fromStopID),
		ToStopID:     l.toStopID,
		ToStopName:   r.store.StopName(l.toStopID),
		DepartureTS:  r.secondsToTime(l.fromDepSecs),
		ArrivalTS:    r.secondsToTime(l.toArrSecs),
	}
}

func stopSet(stops []models.StopID) map[models.StopID]bool {
	set := make(map[models.StopID]bool, len(stops))
	for _, s := range stops {
		set[s] = true
	}
	return set
}

// bisectLeftDeparture returns the index of the first departure whose
// DepartureSecs >= target, assuming deps is sorted ascending.
func bisectLeftDeparture(deps []schedule.Departure, target int) int {
	return sort.Search(len(deps), func(i int) bool { return deps[i].DepartureSecs >= target })
}

// FindOutbound finds the earliest-arriving journey from any of
// originStops to any stop in destStops, departing no earlier than
// earliestDepartureSecs, with at most one transfer. Returns nil if no
// journey exists within the search's pruning bounds.
func (r *Router) FindOutbound(originStops []models.StopID, destStops []models.StopID, earliestDepartureSecs int) []models.BusLeg {
	dest := stopSet(destStops)
	bestArrival := int(^uint(0) >> 1) // max int, stands in for float("inf")
	var bestLegs []leg

	// Phase 1: direct routes.
	for _, origin := range originStops {
		deps, ok := r.store.StopDepartures(origin)
		if !ok {
			continue
		}
		idx := bisectLeftDeparture(deps, earliestDepartureSecs)

		for i := idx; i < len(deps); i++ {
			dep := deps[i]
			if dep.DepartureSecs >= bestArrival {
				break
			}
			tripStops, ok := r.store.TripStops(dep.TripID)
			if !ok {
				continue
			}
			for _, ts := range tripStops {
				if ts.StopSequence <= dep.StopSequence {
					continue
				}
				if dest[ts.StopID] && ts.ArrivalSecs < bestArrival {
					bestArrival = ts.ArrivalSecs
					bestLegs = []leg{{dep.TripID, origin, dep.DepartureSecs, ts.StopID, ts.ArrivalSecs}}
					break
				}
			}
		}
	}

	// Phase 2: one-transfer routes.
	for _, origin := range originStops {
		deps, ok := r.store.StopDepartures(origin)
		if !ok {
			continue
		}
		idx := bisectLeftDeparture(deps, earliestDepartureSecs)

		for i := idx; i < len(deps); i++ {
			dep := deps[i]
			if dep.DepartureSecs >= bestArrival {
				break
			}
			tripStops, ok := r.store.TripStops(dep.TripID)
			if !ok {
				continue
			}

			intermediatesChecked := 0
			for _, ts := range tripStops {
				if ts.StopSequence <= dep.StopSequence {
					continue
				}
				if dest[ts.StopID] {
					// Phase 1 already covers (or would cover) this.
					break
				}

				intermediatesChecked++
				if intermediatesChecked > config.MaxIntermediateStops {
					break
				}
				if ts.ArrivalSecs >= bestArrival {
					break
				}

				connDeps, ok := r.store.StopDepartures(ts.StopID)
				if !ok {
					continue
				}
				transferReady := ts.ArrivalSecs + config.MinTransferSecs
				connIdx := bisectLeftDeparture(connDeps, transferReady)

				connectionsChecked := 0
				for j := connIdx; j < len(connDeps); j++ {
					conn := connDeps[j]
					if conn.DepartureSecs >= bestArrival {
						break
					}
					if conn.TripID == dep.TripID {
						continue
					}
					connectionsChecked++
					if connectionsChecked > config.MaxConnectingDepartures {
						break
					}

					connTripStops, ok := r.store.TripStops(conn.TripID)
					if !ok {
						continue
					}
					for _, cts := range connTripStops {
						if cts.StopSequence <= conn.StopSequence {
							continue
						}
						if dest[cts.StopID] && cts.ArrivalSecs < bestArrival {
							bestArrival = cts.ArrivalSecs
							bestLegs = []leg{
								{dep.TripID, origin, dep.DepartureSecs, ts.StopID, ts.ArrivalSecs},
								{conn.TripID, ts.StopID, conn.DepartureSecs, cts.StopID, cts.ArrivalSecs},
							}
							break
						}
					}
				}
			}
		}
	}

	if bestLegs == nil {
		return nil
	}
	out := make([]models.BusLeg, len(bestLegs))
	for i, l := range bestLegs {
		out[i] = r.makeBusLeg(l)
	}
	return out
}

// FindReturn finds the latest-departing journey from any of trailStops
// to any stop in originStops that arrives no later than deadlineSecs,
// with at most one transfer. Returns nil if no journey exists within the
// search's pruning bounds.
func (r *Router) FindReturn(trailStops []models.StopID, originStops []models.StopID, deadlineSecs int) []models.BusLeg {
	origin := stopSet(originStops)
	bestTrailDep := -1
	var bestLegs []leg

	// Phase 1: direct routes, latest departure first.
	for _, trailStop := range trailStops {
		deps, ok := r.store.StopDepartures(trailStop)
		if !ok {
			continue
		}
		checked := 0
		for i := len(deps) - 1; i >= 0; i-- {
			dep := deps[i]
			if dep.DepartureSecs > deadlineSecs {
				continue
			}
			if dep.DepartureSecs <= bestTrailDep {
				break
			}
			checked++
			if checked > config.MaxReturnDepartures {
				break
			}

			tripStops, ok := r.store.TripStops(dep.TripID)
			if !ok {
				continue
			}
			for _, ts := range tripStops {
				if ts.StopSequence <= dep.StopSequence {
					continue
				}
				if origin[ts.StopID] && ts.ArrivalSecs <= deadlineSecs {
					if dep.DepartureSecs > bestTrailDep {
						bestTrailDep = dep.DepartureSecs
						bestLegs = []leg{{dep.TripID, trailStop, dep.DepartureSecs, ts.StopID, ts.ArrivalSecs}}
					}
					break
				}
			}
		}
	}

	// Phase 2: one-transfer routes.
	for _, trailStop := range trailStops {
		deps, ok := r.store.StopDepartures(trailStop)
		if !ok {
			continue
		}
		checked := 0
		for i := len(deps) - 1; i >= 0; i-- {
			dep := deps[i]
			if dep.DepartureSecs > deadlineSecs {
				continue
			}
			if dep.DepartureSecs <= bestTrailDep {
				break
			}
			checked++
			if checked > config.MaxReturnDepartures {
				break
			}

			tripStops, ok := r.store.TripStops(dep.TripID)
			if !ok {
				continue
			}

			intermediatesChecked := 0
			for _, ts := range tripStops {
				if ts.StopSequence <= dep.StopSequence {
					continue
				}
				if origin[ts.StopID] {
					break
				}

				intermediatesChecked++
				if intermediatesChecked > config.MaxIntermediateStops {
					break
				}
				if ts.ArrivalSecs > deadlineSecs {
					break
				}

				connDeps, ok := r.store.StopDepartures(ts.StopID)
				if !ok {
					continue
				}
				transferReady := ts.ArrivalSecs + config.MinTransferSecs
				connIdx := bisectLeftDeparture(connDeps, transferReady)

				connectionsChecked := 0
				for j := connIdx; j < len(connDeps); j++ {
					conn := connDeps[j]
					if conn.DepartureSecs > deadlineSecs {
						break
					}
					if conn.TripID == dep.TripID {
						continue
					}
					connectionsChecked++
					if connectionsChecked > config.MaxConnectingDepartures {
						break
					}

					connTripStops, ok := r.store.TripStops(conn.TripID)
					if !ok {
						continue
					}
					for _, cts := range connTripStops {
						if cts.StopSequence <= conn.StopSequence {
							continue
						}
						if origin[cts.StopID] && cts.ArrivalSecs <= deadlineSecs {
							if dep.DepartureSecs > bestTrailDep {
								bestTrailDep = dep.DepartureSecs
								bestLegs = []leg{
									{dep.TripID, trailStop, dep.DepartureSecs, ts.StopID, ts.ArrivalSecs},
									{conn.TripID, ts.StopID, conn.DepartureSecs, cts.StopID, cts.ArrivalSecs},
								}
							}
							break
						}
					}
				}
			}
		}
	}

	if bestLegs == nil {
		return nil
	}
	out := make([]models.BusLeg, len(bestLegs))
	for i, l := range bestLegs {
		out[i] = r.makeBusLeg(l)
	}
	return out
}
