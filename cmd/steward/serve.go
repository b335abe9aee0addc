package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/devserver"
)

// startWorker launches a background worker goroutine that respects context
// cancellation. Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}

var serveSeed bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local development backend",
	Long:  "Serve the agentic REST and WebSocket contract from a local SQLite database, for developing against without a real deployment.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false,
		"Populate a fresh database with demo fixtures")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	store, err := devserver.OpenStore(cfg.Serve.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	slog.Info("store initialized", "path", cfg.Serve.DatabasePath)

	if serveSeed {
		if err := store.Seed(); err != nil {
			store.Close()
			return fmt.Errorf("seed store: %w", err)
		}
		slog.Info("demo fixtures seeded", "profile", devserver.DefaultProfile)
	}

	server := devserver.NewServer(store, cfg.API.Token, slog.Default())

	var wg sync.WaitGroup
	scheduler := devserver.NewScheduleCoordinator(store, server.Hub(), time.Minute, slog.Default())
	startWorker(ctx, &wg, "schedule-coordinator", scheduler.Run)

	addr := fmt.Sprintf(":%d", cfg.Serve.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.Serve.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Serve.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Serve.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	wg.Wait()
	if err := store.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
