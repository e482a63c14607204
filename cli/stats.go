package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/config"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/zoneindex"
)

// newStatsCmd builds the `stats` command: reports document count,
// segment count and on-disk size for an index.
func newStatsCmd() *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print document/segment/size counters for an index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if index == "" {
				index = cfg.IndexPath
			}

			idx, err := zoneindex.OpenReadOnly(index)
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer idx.Close()

			stats, err := zoneindex.ReadStats(index, idx)
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "index directory (default: INDEX_PATH)")
	return cmd
}
