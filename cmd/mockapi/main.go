// Command mockapi serves a stub of the catalog API on MOCK_PORT so the
// probers can run without the real backend.
//
// Usage:
//
//	go run ./cmd/mockapi [-db]
//	API_BASE_URL=http://localhost:8080/api.php go run ./cmd/apitest
//
// With -db, /xp_lv is served from the configured database instead of the
// built-in default levels.
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
	"golang.org/x/sync/errgroup"

	"github.com/ovoapp/catalog-probe/internal/config"
	"github.com/ovoapp/catalog-probe/internal/database"
	"github.com/ovoapp/catalog-probe/internal/logger"
	"github.com/ovoapp/catalog-probe/internal/mockapi"
)

func main() {
	useDB := flag.Bool("db", false, "Serve xp_lv from the configured database")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup structured logging
	log, err := logger.Setup(cfg, "mockapi")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := serve(cfg, log, *useDB); err != nil {
		log.Error("server stopped", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func serve(cfg *config.Config, log *zap.Logger, useDB bool) error {
	var levels mockapi.LevelSource
	if useDB {
		db, err := database.Open(database.DefaultConfig(cfg.DBDriver, cfg.DSN()), log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		levels = db
	}

	handlers := mockapi.NewHandlers(mockapi.DefaultCatalog(), levels, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MockPort),
		Handler:           mockapi.SetupRoutes(handlers, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting stub catalog API",
			zap.String("env", cfg.Env),
			zap.Int("port", cfg.MockPort),
			zap.Bool("strict_weekday", cfg.MockStrictWeekday),
			zap.Bool("levels_from_db", useDB),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
