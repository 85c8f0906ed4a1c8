package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/simsearch/internal/api/handlers"
	"github.com/cloo-solutions/simsearch/internal/config"
	"github.com/cloo-solutions/simsearch/internal/jobs"
	"github.com/cloo-solutions/simsearch/internal/server"
	"github.com/cloo-solutions/simsearch/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the search API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides SIMS_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

// SetupLogging installs the JSON slog handler used by every command.
func SetupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	SetupLogging(cfg.Debug)

	if cfg.HasSentry() {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Debug:       cfg.Debug,
		})
		if err != nil {
			slog.Warn("telemetry init failed, continuing without tracing", "error", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")

	b, err := openBackend(ctx, cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer b.close()

	stack, err := newSearchStack(cfg, b)
	if err != nil {
		return err
	}
	// drains pending async suggestion updates before the database closes
	defer stack.recorder.Release()

	var reconcileWorker *jobs.Worker
	if cfg.SuggestionReconcileInterval > 0 {
		reconciler := jobs.NewSuggestionReconciler(stack.recorder)
		reconcileWorker = jobs.NewWorker("suggestion-reconciler", reconciler, cfg.SuggestionReconcileInterval)
		go reconcileWorker.Start(ctx)
	}

	router := server.NewRouter(server.RouterConfig{
		PrincipalResolver: stack.principals,
		PrincipalHeader:   cfg.PrincipalHeader,
		SearchHandler:     handlers.NewSearchHandler(stack.search),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down")
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	if reconcileWorker != nil {
		reconcileWorker.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited")
	return nil
}
