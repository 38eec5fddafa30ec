package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"karyab/client/internal/config"
	"karyab/client/internal/dashboard"
	"karyab/client/internal/models"
	"karyab/client/internal/realtime"
	"karyab/client/internal/rest"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	api := rest.NewClient(cfg.APIBaseURL, cfg.AuthToken, logger)
	channel := realtime.NewChannel(cfg.SocketURL, cfg.AuthToken, logger)
	ctrl := dashboard.New(models.Role(cfg.Role), api, channel, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctrl.Mount(ctx)
	cancel()

	logger.Info().Str("role", cfg.Role).Msg("dashboard running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctrl.Close()
	logger.Info().Msg("dashboard stopped")
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
