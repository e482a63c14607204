package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/config"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/zoneindex"
)

// newOptimizeCmd builds the `optimize` command: the operator-invoked
// forced compaction mode.
func newOptimizeCmd() *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Force compaction of an index toward fewer segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if index == "" {
				index = cfg.IndexPath
			}

			log := slog.Default().With(slog.String("cmd", "optimize"))
			w, err := zoneindex.Open(index, zoneindex.WithLogger(log))
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer w.Close()

			log.Info("optimize starting", slog.String("index", index))
			if err := w.Optimize(cmd.Context()); err != nil {
				return fmt.Errorf("optimize: %w", err)
			}
			log.Info("optimize complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "index directory (default: INDEX_PATH)")
	return cmd
}
