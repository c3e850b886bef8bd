// Package serverapp wires the full serving stack — GTFS load, schedule
// store, trail index, deadline, planner context, HTTP router — so the
// server entrypoints stay thin flag parsers over one shared Run.
package serverapp

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/deadline"
	"github.com/gezmi/trailbus/internal/httpapi"
	"github.com/gezmi/trailbus/internal/planner"
	"github.com/gezmi/trailbus/internal/schedule"
	"github.com/gezmi/trailbus/internal/trails"
)

// Options selects the data sources and listen address for one serving
// process. An empty SQLitePath means the in-memory schedule store.
type Options struct {
	GTFSDir        string
	SQLitePath     string
	TrailIndexPath string
	Date           string // YYYY-MM-DD
	Addr           string
}

// Run loads one service date's data, prepares the planner context, and
// serves the planning API until the listener fails or the process is
// killed.
func Run(opts Options) error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	date, err := time.Parse("2006-01-02", opts.Date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", opts.Date, err)
	}

	rawFeed, err := schedule.LoadRawFeed(opts.GTFSDir)
	if err != nil {
		return fmt.Errorf("loading GTFS feed: %w", err)
	}
	filtered, err := rawFeed.FilterForDate(date)
	if err != nil {
		return err
	}

	var store schedule.Store
	if opts.SQLitePath != "" {
		store, err = schedule.BuildDiskStore(opts.SQLitePath, filtered)
	} else {
		store, err = schedule.NewMemoryStore(filtered, log)
	}
	if err != nil {
		return fmt.Errorf("building schedule store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	rawTrails, err := trails.LoadIndex(opts.TrailIndexPath)
	if err != nil {
		return fmt.Errorf("loading trail index: %w", err)
	}

	dl, err := deadline.GetDeadline(nil, date, config.SafetyMarginHours)
	if err != nil {
		return err
	}

	ctx, err := planner.Prepare(store, filtered.StopsAsModels(), date, dl, rawTrails, config.MaxWalkToTrailM)
	if err != nil {
		return fmt.Errorf("preparing planner context: %w", err)
	}

	handler := httpapi.New(httpapi.ContextPlanner{Ctx: ctx}, log)
	router := httpapi.NewRouter(handler)

	log.Info("serving", zap.String("addr", opts.Addr))
	return http.ListenAndServe(opts.Addr, router)
}
