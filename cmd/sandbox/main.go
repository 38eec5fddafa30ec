package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"karyab/client/internal/config"
	"karyab/client/internal/sandbox"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	store, err := sandbox.Open(cfg.SandboxDB)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.SandboxDB).Msg("opening database")
	}

	srv := sandbox.NewServer(store, []byte(cfg.JWTSecret), logger)
	logger.Info().Str("addr", cfg.SandboxAddr).Msg("sandbox listening")
	if err := srv.Run(cfg.SandboxAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
