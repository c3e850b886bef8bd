// Command server is the standalone HTTP entrypoint: it loads one GTFS
// feed and trail index for a fixed service date and serves the planning
// API until killed. cmd/planhikes wraps the same wiring behind cobra for
// ad-hoc CLI use; this binary is the one a process manager supervises.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gezmi/trailbus/internal/serverapp"
)

func main() {
	gtfsDir := flag.String("gtfs-dir", "", "directory of unzipped GTFS text files")
	sqlitePath := flag.String("sqlite", "", "path to a SQLite schedule cache (empty = in-memory store)")
	trailIndexPath := flag.String("trail-index", "", "path to the pre-processed trail_index.json")
	dateStr := flag.String("date", "", "GTFS service date to serve, YYYY-MM-DD")
	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	if *gtfsDir == "" || *trailIndexPath == "" || *dateStr == "" {
		fmt.Fprintln(os.Stderr, "gtfs-dir, trail-index and date are required")
		os.Exit(2)
	}

	err := serverapp.Run(serverapp.Options{
		GTFSDir:        *gtfsDir,
		SQLitePath:     *sqlitePath,
		TrailIndexPath: *trailIndexPath,
		Date:           *dateStr,
		Addr:           *addr,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
