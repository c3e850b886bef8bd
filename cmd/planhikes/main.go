// Command planhikes is the CLI entrypoint: given an origin city, a
// travel date, and a data directory, it prints the ranked hike plans
// a hiker could do that day by public bus.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planhikes",
		Short: "Plan hikes reachable by public bus",
	}
	root.AddCommand(newPlanCmd())
	root.AddCommand(newServeCmd())
	return root
}
