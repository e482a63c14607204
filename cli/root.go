// Package cli wires the full/daily/stats/optimize/serve commands onto a cobra root, following the same cobra+fang shape the
// cms blueprint's cli package uses.
package cli

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:     "zonesearch",
		Short:   "Full-zonefile domain name search",
		Long:    "Builds and serves a searchable index over an entire TLD zonefile.",
		Version: Version + " (" + Commit + ")",
	}

	root.AddCommand(newFullCmd())
	root.AddCommand(newDailyCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newOptimizeCmd())
	root.AddCommand(newServeCmd())

	return fang.Execute(ctx, root)
}
