package main

import (
	"betonit/actions"
	"betonit/internal/config"
	"betonit/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config.")
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	app := actions.App()
	log.Info().Str("addr", cfg.RelayAddr).Msg("Starting relay.")
	if err := app.Serve(); err != nil {
		log.Fatal().Err(err).Msg("Relay stopped.")
	}
}
