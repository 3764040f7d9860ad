// main.go
//
// Entry point for the room relay server.
// Loads configuration (.env, optional YAML, environment, flags), sets up
// zerolog, opens the room store and serves HTTP until SIGINT/SIGTERM.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/feud-rooms/internal/config"
	"github.com/robalobadob/feud-rooms/internal/httpserver"
	"github.com/robalobadob/feud-rooms/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (default $CONFIG_FILE)")
		host       = flag.String("host", "", "listen host (overrides HOST)")
		port       = flag.Int("port", 0, "listen port (overrides PORT)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	setupLogging(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open room store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close room store")
		}
	}()

	srv := httpserver.New(st, cfg)
	addr := cfg.ServerAddress()
	log.Info().
		Str("addr", addr).
		Str("store", cfg.Store.Driver).
		Str("static_dir", cfg.StaticDir).
		Msg("starting room server")
	log.Info().Msgf("home: http://localhost:%d/  host: /host  viewer: /viewer", cfg.Server.Port)

	if err := srv.Run(ctx, addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// setupLogging applies the configured level and output format to the
// global zerolog logger.
func setupLogging(lc config.LogConfig) {
	if lvl, err := zerolog.ParseLevel(lc.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if lc.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
