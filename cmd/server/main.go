package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Wyydra/switchboard/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/switchboard/internal/adapter/driven/presence/memory"
	handler "github.com/Wyydra/switchboard/internal/adapter/driving/http"
	"github.com/Wyydra/switchboard/internal/config"
	"github.com/Wyydra/switchboard/internal/core/service"
	"github.com/rs/zerolog"
)

func main() {
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	l := zerolog.New(w).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to load config")
	}

	dir := memory.NewDirectory()
	hub := ws.NewHub()

	coordinator := service.NewCoordinator(dir, hub)
	relay := service.NewRelay(dir, hub)
	lifecycle := service.NewLifecycle(coordinator, dir, hub)

	h := handler.NewHandler(coordinator, relay, lifecycle, hub, cfg)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h.NewRouter(),
	}

	go func() {
		l.Info().Str("addr", cfg.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	l.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	hub.Stop()
	l.Info().Msg("Server exited")
}
