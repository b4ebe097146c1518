package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"home-console/internal/api"
	"home-console/internal/cache"
	"home-console/internal/clock"
	"home-console/internal/config"
	"home-console/internal/console"
	"home-console/internal/entity"
	"home-console/internal/session"
	"home-console/internal/stream"
	"home-console/internal/syncer"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	configPath := os.Getenv("CONSOLE_CONFIG")
	if configPath == "" {
		configPath = "console_config.yaml"
	}
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	sess := session.NewStore(os.Getenv("API_TOKEN"))

	logger.Info("Starting home console",
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Bool("authenticated", sess.Authenticated()))

	client := api.NewClient(cfg.Server.BaseURL, sess, cfg.Server.Timeout, logger)
	store := cache.New(clock.NewReal(), cfg.Cache.TTL)
	orch := syncer.New(client, store, logger)

	feed := stream.NewClient(cfg.Server.EventsURL, sess, func(deviceID int64, state entity.Document) {
		orch.ApplyDeviceState(deviceID, state)
	}, logger)
	if sess.Authenticated() {
		if err := feed.Connect(); err != nil {
			logger.Warn("Event feed unavailable, continuing without live updates", zap.Error(err))
		}
		defer feed.Disconnect()
	}

	console.New(orch, client, sess, logger).Run()

	logger.Info("Shutting down")
}
