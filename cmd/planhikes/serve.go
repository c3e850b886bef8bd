package main

import (
	"github.com/spf13/cobra"

	"github.com/gezmi/trailbus/internal/serverapp"
)

func newServeCmd() *cobra.Command {
	opts := serverapp.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hike-planning API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serverapp.Run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.GTFSDir, "gtfs-dir", "", "directory of unzipped GTFS text files (required)")
	cmd.Flags().StringVar(&opts.SQLitePath, "sqlite", "", "path to a SQLite schedule cache (empty = in-memory store)")
	cmd.Flags().StringVar(&opts.TrailIndexPath, "trail-index", "", "path to the pre-processed trail_index.json (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "GTFS service date to serve, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "address to listen on")
	_ = cmd.MarkFlagRequired("gtfs-dir")
	_ = cmd.MarkFlagRequired("trail-index")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
