package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"promoterbot/config"
	"promoterbot/pkg/api"
	"promoterbot/pkg/bot"
	"promoterbot/pkg/logger"
	"promoterbot/service"
	"promoterbot/storage"
	"promoterbot/storage/memory"
	"promoterbot/storage/postgres"
	"promoterbot/storage/redis"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	// 3. Initialize Session Storage
	ctx := context.Background()
	var (
		stg storage.IStorage
		err error
	)
	switch cfg.SessionBackend {
	case "redis":
		stg, err = redis.New(ctx, cfg, log)
	case "memory":
		stg = memory.New(log)
	default:
		stg, err = postgres.New(ctx, cfg, log)
	}
	if err != nil {
		log.Error("failed to initialize session storage", logger.Error(err), logger.String("backend", cfg.SessionBackend))
		os.Exit(1)
	}
	defer stg.Close()

	// 4. Services and backend API client
	svc := service.New(stg, log)
	client := api.New(cfg, stg, log)

	// 5. Initialize Bot
	promoterBot, err := bot.New(&cfg, stg, svc, client, log)
	if err != nil {
		log.Error("failed to initialize bot", logger.Error(err))
		os.Exit(1)
	}

	go promoterBot.Start()

	// 6. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Stopping bot and shutting down...")
	promoterBot.Stop()
}
