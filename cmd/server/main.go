/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the returns review dashboard server. Handles
  configuration, dataset seeding, dependency injection, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and RETURNS_* environment variables
  2. Configure the structured logger
  3. Open the SQLite store (in-memory by default)
  4. Generate and seed the synthetic dataset
  5. Configure HTTP router and start the server with graceful shutdown

ENVIRONMENT:
  RETURNS_ADDR       Listen address (default ":8080")
  RETURNS_DB         SQLite path, ":memory:" for in-memory (default)
  RETURNS_SEED       RNG seed, 0 means time-based (default 0)
  RETURNS_YEAR       Dataset calendar year (default 2024)
  RETURNS_LOG_LEVEL  zerolog level (default "info")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - generator: Synthetic dataset construction
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/warp/returns-review/api"
	"github.com/warp/returns-review/config"
	"github.com/warp/returns-review/generator"
	"github.com/warp/returns-review/review"
	"github.com/warp/returns-review/store/sqlite"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	// Generate and seed the demo dataset
	gen := generator.New(generator.Config{Year: cfg.Year, Seed: cfg.Seed})
	ds := gen.Generate()
	if err := store.Seed(context.Background(), ds); err != nil {
		log.Fatal().Err(err).Msg("failed to seed dataset")
	}
	log.Info().
		Int("distributors", len(ds.Distributors)).
		Int("transactions", len(ds.Transactions)).
		Int("year", cfg.Year).
		Msg("dataset seeded")

	// Wire handler and router
	reviewer := review.NewReviewer(store, log)
	handler := api.NewHandler(store, reviewer, gen, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}
