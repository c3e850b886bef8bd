package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gezmi/trailbus/internal/config"
	"github.com/gezmi/trailbus/internal/deadline"
	"github.com/gezmi/trailbus/internal/models"
	"github.com/gezmi/trailbus/internal/planner"
	"github.com/gezmi/trailbus/internal/schedule"
	"github.com/gezmi/trailbus/internal/trails"
)

func newPlanCmd() *cobra.Command {
	var (
		gtfsDir           string
		trailIndexPath    string
		dateStr           string
		origin            string
		colors            []string
		loopOnly          bool
		linearOnly        bool
		minDistanceKM     float64
		maxDistanceKM     float64
		maxResults        int
		safetyMarginHours float64
		minHikingHours    float64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print ranked hike plans for one origin and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("%w: invalid --date %q: %v", models.ErrInvalidQuery, dateStr, err)
			}

			rawFeed, err := schedule.LoadRawFeed(gtfsDir)
			if err != nil {
				return fmt.Errorf("%w: %v", models.ErrFeedUnavailable, err)
			}
			filtered, err := rawFeed.FilterForDate(date)
			if err != nil {
				return err
			}
			store, err := schedule.NewMemoryStore(filtered, log)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			rawTrails, err := trails.LoadIndex(trailIndexPath)
			if err != nil {
				return fmt.Errorf("loading trail index: %w", err)
			}

			dl, err := deadline.GetDeadline(nil, date, safetyMarginHours)
			if err != nil {
				return err
			}

			query := buildQuery(origin, date, colors, loopOnly, linearOnly, minDistanceKM, maxDistanceKM, maxResults, minHikingHours)

			ctx, err := planner.Prepare(store, filtered.StopsAsModels(), date, dl, rawTrails, query.MaxWalkToTrailM)
			if err != nil {
				return err
			}

			plans, err := planner.PlanHikesForOrigin(ctx, query)
			if err != nil {
				return err
			}

			printPlans(cmd.OutOrStdout(), plans, dl)
			return nil
		},
	}

	cmd.Flags().StringVar(&gtfsDir, "gtfs-dir", "", "directory of unzipped GTFS text files (required)")
	cmd.Flags().StringVar(&trailIndexPath, "trail-index", "", "path to the pre-processed trail_index.json (required)")
	cmd.Flags().StringVar(&dateStr, "date", "", "travel date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&origin, "origin", "", "origin city, e.g. \"Rehovot\" (required)")
	cmd.Flags().StringSliceVar(&colors, "colors", nil, "restrict to trails marked with one of these colors")
	cmd.Flags().BoolVar(&loopOnly, "loop-only", false, "only loop trails")
	cmd.Flags().BoolVar(&linearOnly, "linear-only", false, "only non-loop trails")
	cmd.Flags().Float64Var(&minDistanceKM, "min-distance-km", 0, "minimum trail distance in km (0 = no minimum)")
	cmd.Flags().Float64Var(&maxDistanceKM, "max-distance-km", 0, "maximum trail distance in km (0 = no maximum)")
	cmd.Flags().IntVar(&maxResults, "max-results", 20, "maximum plans to print")
	cmd.Flags().Float64Var(&safetyMarginHours, "safety-margin-hours", config.SafetyMarginHours, "Friday candle-lighting safety margin")
	cmd.Flags().Float64Var(&minHikingHours, "min-hiking-hours", config.MinHikingHours, "discard plans with less hiking time than this")
	_ = cmd.MarkFlagRequired("gtfs-dir")
	_ = cmd.MarkFlagRequired("trail-index")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("origin")

	return cmd
}

func buildQuery(origin string, date time.Time, colors []string, loopOnly, linearOnly bool, minKM, maxKM float64, maxResults int, minHikingHours float64) models.HikeQuery {
	q := models.HikeQuery{
		Origin:            origin,
		Date:              date,
		Colors:            colors,
		LoopOnly:          loopOnly,
		LinearOnly:        linearOnly,
		MaxResults:        maxResults,
		MaxWalkToTrailM:   config.MaxWalkToTrailM,
		MinHikingHours:    minHikingHours,
		SafetyMarginHours: config.SafetyMarginHours,
	}
	if minKM > 0 {
		q.MinDistanceKM = &minKM
	}
	if maxKM > 0 {
		q.MaxDistanceKM = &maxKM
	}
	return q
}

func printPlans(w io.Writer, plans []models.HikePlan, dl time.Time) {
	fmt.Fprintf(w, "Deadline: %s\n\n", dl.Format("15:04"))
	if len(plans) == 0 {
		fmt.Fprintln(w, "No viable hike plans found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "TRAIL\tDEPART\tRETURN\tHIKING HOURS\tDISTANCE KM\tRATIO")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\t%.2f\n",
			p.Trail.Name,
			p.DepartureTS.Format("15:04"),
			p.ArrivalTS.Format("15:04"),
			p.HikeSegment.HikingHours,
			p.HikeSegment.EstimatedDistanceKM,
			p.HikingRatio,
		)
	}
	tw.Flush() //nolint:errcheck
}
