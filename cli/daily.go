package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/config"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/ingest"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/segmenter"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/zonefile"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/zoneindex"
)

// newDailyCmd builds the `daily` command: applies one day's
// additions/deletions delta to an existing index.
func newDailyCmd() *cobra.Command {
	var (
		download       bool
		addsPath       string
		delsPath       string
		remoteAddsPath string
		remoteDelsPath string
		index          string
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Apply a day's additions/deletions delta to an existing index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			runID := uuid.NewString()
			log := slog.Default().With(slog.String("run_id", runID), slog.String("cmd", "daily"))

			if index == "" {
				index = cfg.IndexPath
			}

			adds, addsCloser, err := openDailyInput(cmd.Context(), cfg, addsPath, download, remoteAddsPath)
			if err != nil {
				return fmt.Errorf("open additions: %w", err)
			}
			defer addsCloser.Close()

			dels, delsCloser, err := openDailyInput(cmd.Context(), cfg, delsPath, download, remoteDelsPath)
			if err != nil {
				return fmt.Errorf("open deletions: %w", err)
			}
			defer delsCloser.Close()

			seg := segmenter.New(cfg.WordSplitterURL, cfg.WordSplitterUser, cfg.WordSplitterPass,
				segmenter.WithBatchSize(cfg.WordBatchSize), segmenter.WithLogger(log))

			w, err := zoneindex.Open(index, zoneindex.WithHeapBytes(cfg.IndexHeapSize), zoneindex.WithLogger(log))
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer w.Close()

			log.Info("daily apply starting", slog.String("index", index))
			stats, err := ingest.ApplyDaily(cmd.Context(), zonefile.Lines(adds), zonefile.Lines(dels), seg, w, cfg.WordBatchSize)
			if err != nil {
				return fmt.Errorf("apply daily: %w", err)
			}

			log.Info("daily apply complete",
				slog.Int64("lines_read", stats.LinesRead),
				slog.Int64("rejected", stats.Rejected),
				slog.Int64("documents_written", stats.DocumentsWritten),
				slog.Int64("segmenter_terminal_failures", seg.Stats().TerminalFailure),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&download, "download", false, "download both delta files from ZONEFILE_API_URL")
	cmd.Flags().StringVar(&addsPath, "adds", "", "local additions file path")
	cmd.Flags().StringVar(&delsPath, "dels", "", "local deletions file path")
	cmd.Flags().StringVar(&remoteAddsPath, "remote-adds-path", "", "remote additions path, relative to ZONEFILE_API_URL")
	cmd.Flags().StringVar(&remoteDelsPath, "remote-dels-path", "", "remote deletions path, relative to ZONEFILE_API_URL")
	cmd.Flags().StringVar(&index, "index", "", "index directory (default: INDEX_PATH)")
	return cmd
}

func openDailyInput(ctx context.Context, cfg config.Config, path string, download bool, remotePath string) (io.Reader, io.Closer, error) {
	switch {
	case download:
		src := zonefile.New(cfg.ZonefileAPIURL, cfg.ZonefileToken)
		rc, err := src.Open(ctx, remotePath)
		if err != nil {
			return nil, nil, fmt.Errorf("download: %w", err)
		}
		return rc, rc, nil
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open: %w", err)
		}
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("one of --download or explicit --adds/--dels is required")
	}
}
