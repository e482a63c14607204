package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/cachebackend"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/config"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/httpapi"
	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/queryengine"
)

const (
	preShutdownDelay = 1 * time.Second
	shutdownTimeout  = 15 * time.Second
)

// newServeCmd builds the `serve` command: the read-side HTTP API, refreshing its reader snapshot from the index directory a
// full/daily run commits to.
func newServeCmd() *cobra.Command {
	var (
		index string
		port  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search HTTP API over an index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if index == "" {
				index = cfg.IndexPath
			}
			if port == 0 {
				port = cfg.APIPort
			}

			log := slog.Default().With(slog.String("cmd", "serve"))

			cache, err := cachebackend.New(cfg.CacheURL)
			if err != nil {
				return fmt.Errorf("open cache backend: %w", err)
			}
			defer cache.Close()

			engine, err := queryengine.Open(index, cache,
				queryengine.WithRefreshInterval(cfg.ReaderRefresh),
				queryengine.WithLogger(log),
			)
			if err != nil {
				return fmt.Errorf("open query engine: %w", err)
			}
			defer engine.Close()

			srv := httpapi.New(engine, httpapi.WithLogger(log))
			addr := fmt.Sprintf(":%d", port)
			httpSrv := &http.Server{Addr: addr, Handler: srv}

			return serveWithSignals(cmd.Context(), log, httpSrv)
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "index directory (default: INDEX_PATH)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: API_PORT)")
	return cmd
}

// serveWithSignals runs srv until ctx or a SIGINT/SIGTERM fires, then
// drains in-flight requests within shutdownTimeout before returning.
func serveWithSignals(ctx context.Context, log *slog.Logger, srv *http.Server) error {
	parent, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("server starting", slog.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server start failed", slog.Any("error", err))
		}
		return err

	case <-parent.Done():
		log.Info("shutdown initiated")
		time.Sleep(preShutdownDelay)

		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(drainCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("graceful shutdown incomplete", slog.Any("error", err))
			_ = srv.Close()
		}

		if err := <-errCh; err != nil {
			log.Error("server exit error after shutdown", slog.Any("error", err))
			return err
		}
		log.Info("server stopped gracefully")
		return nil
	}
}
