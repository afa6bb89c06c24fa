// Command server runs the sentrytel telemetry ingestion service: it loads
// configuration, opens the badger-backed player state store, wires the
// batch orchestrator, and serves the dev HTTP front end (POST /ingest,
// GET /metrics) until SIGINT/SIGTERM triggers a graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/riftwatch/sentrytel/internal/api"
	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/logging"
	"github.com/riftwatch/sentrytel/internal/metrics"
	"github.com/riftwatch/sentrytel/internal/pipeline"
	"github.com/riftwatch/sentrytel/internal/store"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	log := logging.WithComponent("main")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("error closing store")
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	orch := pipeline.New(st, cfg.Rules, cfg.Server.ParallelPlayers, pipeline.SystemClock, m)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewServer(orch, m),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		return fmt.Errorf("listen and serve: %w", err)
	}

	if err := api.Shutdown(context.Background(), srv); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info().Msg("shutdown complete")
	return nil
}
