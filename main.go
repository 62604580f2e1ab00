package main

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/app"
	"github.com/debemdeboas/postcraft/internal/composer"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/connection"
	"github.com/debemdeboas/postcraft/internal/db"
	"github.com/debemdeboas/postcraft/internal/logger"
	"github.com/debemdeboas/postcraft/internal/notify"
	"github.com/debemdeboas/postcraft/internal/render"
	"github.com/debemdeboas/postcraft/internal/repository"
)

//go:embed static/* templates/*
var content embed.FS

var mainLogger = zerolog.Nop()

func setLoggers(l zerolog.Logger) {
	mainLogger = logger.Component(l, "http")
	config.SetLogger(logger.Component(l, "config"))
	db.SetLogger(logger.Component(l, "db"))
	repository.SetLogger(logger.Component(l, "repository"))
	composer.SetLogger(logger.Component(l, "composer"))
	connection.SetLogger(logger.Component(l, "connection"))
	notify.SetLogger(logger.Component(l, "notify"))
	render.SetLogger(logger.Component(l, "render"))
}

func main() {
	envErr := godotenv.Load()

	configPath := os.Getenv(config.EnvConfigPath)
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Config is loaded before the level is known, so it logs through a bootstrap logger.
	boot := logger.New("info", logger.FormatConsole)
	config.SetLogger(boot)
	if err := config.LoadConfig(configPath); err != nil {
		boot.Fatal().Err(err).Str("path", configPath).Msg("Error loading config")
	}

	cfg := config.AppConfig
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	setLoggers(log)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing application")
	}
	defer a.Close()

	go a.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newServer(a, content).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}
