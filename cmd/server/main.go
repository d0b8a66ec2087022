package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multiverse_chess/internal/bootstrap"
	"multiverse_chess/internal/game"
	"multiverse_chess/internal/httpx"
	"multiverse_chess/internal/logx"
	"multiverse_chess/internal/replay"
)

func main() {
	cfgPath := flag.String("config", ".env", "path to dotenv-style config file")
	flag.Parse()

	logger := logx.NewLogger()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration failed")
	}

	variant, ok := game.ParseVariant(cfg.DefaultVariant)
	if !ok {
		logger.Fatal().Str("variant", cfg.DefaultVariant).Msg("unknown default variant")
	}

	store, err := replay.NewStore(cfg.ReplayDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("replay store failed")
	}

	srv := httpx.NewServer(logger, store, variant)
	httpSrv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().Str("addr", cfg.ServerAddr).Str("variant", string(variant)).Msg("listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
