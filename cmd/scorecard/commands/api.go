package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/riteshk28/Lighthouse/internal/api"
	"github.com/riteshk28/Lighthouse/internal/api/handlers"
	"github.com/riteshk28/Lighthouse/internal/export"
	"github.com/riteshk28/Lighthouse/internal/persistence"
	"github.com/riteshk28/Lighthouse/internal/realtime"
	"github.com/riteshk28/Lighthouse/internal/scheduler"
	"github.com/riteshk28/Lighthouse/internal/scheduler/jobs"
	"github.com/riteshk28/Lighthouse/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the scorecard HTTP API server.

This command:
- opens the configured store (STORE_BACKEND) and loads the saved scorecard
- serves the load/save endpoints used by the browser client
- pushes every change to websocket clients on /ws
- runs the scheduled export job when EXPORT_SCHEDULE is set

Endpoints:
  GET   /health
  GET   /api/get-data
  POST  /api/save-data
  GET   /api/scorecard
  GET   /api/scorecard/{insights,overview,radar,stats,export,exports}
  PATCH /api/scorecard/pages/{page}/metrics/{metric}
  PUT   /api/scorecard/units/{metric}
  PUT   /api/scorecard/labels
  POST  /api/scorecard/reset
  GET   /ws

Example:
  go run ./cmd/scorecard api
  go run ./cmd/scorecard api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Config, logger, store
	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	// 2. Live push
	hub := realtime.NewHub(a.store.Versioned, log)
	a.store.OnChange(hub.Publish)

	// 3. Write rate limiter, shared through Redis when enabled
	rdb, err := redis.New(ctx, a.cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-process rate limiting")
	}
	limiter := api.NewWriteLimiter(a.cfg.API.SaveRateLimit, a.cfg.API.SaveRateBurst, rdb, log)

	// 4. Handlers and router
	exportOpts := export.Options{PixelRatio: a.cfg.Export.PixelRatio, Quality: a.cfg.Export.Quality}
	exportHandler := handlers.NewExportHandler(a.store, exportOpts, log)
	if recorder, ok := persistence.Recorder(a.gateway); ok {
		exportHandler.WithHistory(recorder)
	}
	router := api.NewRouter(api.Routes{
		Persistence: handlers.NewPersistenceHandler(a.gateway, a.store, log),
		Scorecard:   handlers.NewScorecardHandler(a.store, log),
		Export:      exportHandler,
		Live:        hub,
		Limiter:     limiter,
		CORSOrigin:  a.cfg.API.CORSOrigin,
	}, log)

	// 5. Scheduled export
	sched, err := newExportScheduler(ctx, a, exportOpts)
	if err != nil {
		return err
	}

	// 6. Start server; the factory scorecard is served until the load finishes
	server := api.New(a.cfg, log, router)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	go a.store.Load(ctx)
	if sched != nil {
		sched.Start()
	}

	fmt.Printf("\n✅ Server running on http://localhost:%s (store: %s)\n", a.cfg.Port, a.cfg.Store.Backend)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop()
	}
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.Close(shutdownCtx)
	if rdb != nil {
		rdb.Close()
	}

	log.Info("Server stopped")
	return nil
}

// newExportScheduler registers the export job, or returns nil when no
// schedule is configured
func newExportScheduler(ctx context.Context, a *app, opts export.Options) (*scheduler.Scheduler, error) {
	if a.cfg.Export.Schedule == "" {
		return nil, nil
	}

	sink, err := persistence.OpenExportSink(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("open export sink: %w", err)
	}

	// only the postgres backend keeps an export history
	recorder, _ := persistence.Recorder(a.gateway)

	job, err := jobs.NewExportJob(jobs.ExportJobConfig{
		Schedule: a.cfg.Export.Schedule,
		Format:   jobs.FormatJPEG,
		Options:  opts,
	}, a.store.Snapshot, sink, recorder, a.log)
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(a.log)
	if err := sched.AddJob(job); err != nil {
		return nil, err
	}
	return sched, nil
}
