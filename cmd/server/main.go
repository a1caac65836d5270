/*
main.go - Application entry point

PURPOSE:
  Starts the default-interest calculator API.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config (YAML file, env overrides, then flags)
  2. Open SQLite rate store
  3. Load the schedule (an empty store is seeded from -rates, else the built-in table)
  4. Start the staleness scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: configs/config.yaml, env CONFIG_PATH)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config), ":memory:" allowed
  -rates   JSON rate table that seeds an empty store (overrides config)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop scheduler, close database
  4. Exit

SEE ALSO:
  - config/config.go: Config file and env variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/interest-engine/api"
	"github.com/warp/interest-engine/config"
	"github.com/warp/interest-engine/defaultinterest"
	"github.com/warp/interest-engine/factory"
	"github.com/warp/interest-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	configPath := flag.String("config", defaultConfig, "YAML config path")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	ratesFile := flag.String("rates", "", "JSON rate table that seeds an empty store")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *port > 0 {
		cfg.HTTPPort = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *ratesFile != "" {
		cfg.RateScheduleFile = *ratesFile
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	claimType, err := defaultinterest.ParseClaimType(cfg.DefaultClaimType, defaultinterest.ClaimConsumer)
	if err != nil {
		return fmt.Errorf("default claim type: %w", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	// Initialize handler
	ctx := context.Background()
	handler := api.NewHandler(store, logger)
	handler.DefaultClaimType = claimType

	// The file only seeds an empty store; later updates go through PUT /api/rates.
	if cfg.RateScheduleFile != "" {
		schedule, err := factory.ParseScheduleFile(cfg.RateScheduleFile)
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.RateScheduleFile, err)
		}
		handler.Seed, handler.SeedSource = schedule, "file"
	}
	if err := handler.LoadSchedule(ctx); err != nil {
		return fmt.Errorf("load rate schedule: %w", err)
	}

	scheduler := api.NewStalenessScheduler(handler, cfg.StalenessCron)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      api.NewRouter(handler, cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return err
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
