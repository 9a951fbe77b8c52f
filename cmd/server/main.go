package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/miguel-isidro05/neurosync-rehab/internal/api"
	"github.com/miguel-isidro05/neurosync-rehab/internal/bridge"
	"github.com/miguel-isidro05/neurosync-rehab/internal/config"
	"github.com/miguel-isidro05/neurosync-rehab/internal/ingest"
	"github.com/miguel-isidro05/neurosync-rehab/internal/state"
	"github.com/miguel-isidro05/neurosync-rehab/internal/ws"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()

	store := state.New(cfg.HistorySize)
	bus := bridge.New()
	hub := ws.NewHub(bus, cfg.IdleTimeout)
	ingestSrv := ingest.New(cfg, store, bus)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.NewServer(cfg, store, hub),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return ingestSrv.Run(gctx)
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}
