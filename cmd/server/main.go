/*
main.go - Rating service entry point

PURPOSE:
  Initializes and starts the premium rating server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and optional YAML config
  2. Initialize structured logging
  3. Initialize SQLite store
  4. Build the rating engine from the latest stored configuration
     (or seed the built-in demo filing on first start)
  5. Configure HTTP router and start with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file path (optional)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config; ":memory:" works)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run on defaults with the demo filing
  ./server

  # Run with a config file
  ./server -config=./rating.yaml

  # Run in-memory on a different port
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - config/config.go: YAML configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Persistence
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/rating-engine/api"
	"github.com/warp/rating-engine/config"
	"github.com/warp/rating-engine/factory"
	"github.com/warp/rating-engine/logging"
	"github.com/warp/rating-engine/rating"
	"github.com/warp/rating-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "YAML config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		logging.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	engine, err := loadEngine(context.Background(), store, cfg.Store.SeedDemo)
	if err != nil {
		logging.Fatal("failed to load rating configuration", zap.Error(err))
	}

	provider := rating.NewProvider(engine)
	handler := api.NewHandler(store, provider)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info("rating server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("db", cfg.Store.Path),
			zap.Int("rate_entries", engine.Rates.Len()),
			zap.Int("factors", engine.Factors.Len()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Info("server stopped")
}

// loadEngine builds the serving engine from the latest stored
// configuration snapshot. On a fresh database it seeds the built-in
// demo filing when seedDemo is set, so the server is quotable out of
// the box.
func loadEngine(ctx context.Context, store *sqlite.Store, seedDemo bool) (*rating.Engine, error) {
	rec, err := store.LatestConfig(ctx)
	if err == nil {
		return factory.BuildEngine(rec.RatesJSON, rec.FactorsCSV)
	}
	if !errors.Is(err, sqlite.ErrNoConfig) {
		return nil, err
	}
	if !seedDemo {
		return nil, fmt.Errorf("no rating configuration stored and demo seeding is disabled")
	}

	rates, factors := factory.StandardRateTableJSON(), factory.StandardFactorsCSV()
	version, err := store.SaveConfig(ctx, rates, factors)
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo configuration: %w", err)
	}
	logging.Info("seeded demo rating configuration", zap.Int("version", version))
	return factory.BuildEngine(rates, factors)
}
