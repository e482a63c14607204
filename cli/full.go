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

// newFullCmd builds the `full` command: a from-scratch build over an
// entire zonefile snapshot.
func newFullCmd() *cobra.Command {
	var (
		inputPath  string
		download   bool
		remotePath string
		output     string
		heapGB     int
	)

	cmd := &cobra.Command{
		Use:   "full",
		Short: "Build a fresh index from a full zonefile snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			runID := uuid.NewString()
			log := slog.Default().With(slog.String("run_id", runID), slog.String("cmd", "full"))

			if output == "" {
				output = cfg.IndexPath
			}
			heapBytes := cfg.IndexHeapSize
			if heapGB > 0 {
				heapBytes = int64(heapGB) << 30
			}

			r, closer, err := openFullInput(cmd.Context(), cfg, inputPath, download, remotePath)
			if err != nil {
				return err
			}
			defer closer.Close()

			seg := segmenter.New(cfg.WordSplitterURL, cfg.WordSplitterUser, cfg.WordSplitterPass,
				segmenter.WithBatchSize(cfg.WordBatchSize), segmenter.WithLogger(log))

			w, err := zoneindex.Open(output, zoneindex.WithHeapBytes(heapBytes), zoneindex.WithLogger(log))
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer w.Close()

			log.Info("full build starting", slog.String("index", output))
			stats, err := ingest.FullBuild(cmd.Context(), zonefile.Lines(r), seg, w, cfg.WordBatchSize)
			if err != nil {
				return fmt.Errorf("full build: %w", err)
			}

			log.Info("full build complete",
				slog.Int64("lines_read", stats.LinesRead),
				slog.Int64("rejected", stats.Rejected),
				slog.Int64("documents_written", stats.DocumentsWritten),
				slog.Int64("segmenter_terminal_failures", seg.Stats().TerminalFailure),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "local zonefile path (one domain per line, optionally .gz/.zst)")
	cmd.Flags().BoolVar(&download, "download", false, "download the zonefile snapshot from ZONEFILE_API_URL")
	cmd.Flags().StringVar(&remotePath, "remote-path", "", "remote snapshot path, relative to ZONEFILE_API_URL")
	cmd.Flags().StringVar(&output, "output", "", "index directory (default: INDEX_PATH)")
	cmd.Flags().IntVar(&heapGB, "heap-gb", 0, "RAM budget in GiB (default: INDEX_HEAP_SIZE)")
	return cmd
}

// openFullInput resolves either --input or --download into a decompressed
// line stream plus the io.Closer that owns its underlying resource.
func openFullInput(ctx context.Context, cfg config.Config, inputPath string, download bool, remotePath string) (io.Reader, io.Closer, error) {
	switch {
	case download:
		src := zonefile.New(cfg.ZonefileAPIURL, cfg.ZonefileToken)
		rc, err := src.Open(ctx, remotePath)
		if err != nil {
			return nil, nil, fmt.Errorf("download zonefile: %w", err)
		}
		return rc, rc, nil
	case inputPath != "":
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open input: %w", err)
		}
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("one of --input or --download is required")
	}
}
