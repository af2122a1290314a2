package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inboxcal/config"
	"inboxcal/internal/bootstrap"
	"inboxcal/pkg/logger"
)

func main() {
	// Initialize logger early
	logger.Init(logger.Config{
		Level:   logger.LevelInfo,
		Service: "inboxcal",
	})

	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	loop := flag.Bool("loop", false, "Keep polling instead of running one batch")
	interval := flag.Duration("interval", time.Minute, "Delay between batches in loop mode")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
	}()

	runner, cleanup, err := bootstrap.NewAgent(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize agent: %v", err)
	}
	defer cleanup()

	if !*loop {
		if err := runner.Run(ctx); err != nil {
			logger.Fatal("Batch failed: %v", err)
		}
		return
	}

	logger.Info("Polling every %v (reference timezone: %s)", *interval, cfg.ReferenceTimezone)
	for {
		if err := runner.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Batch failed: %v", err)
		}

		select {
		case <-time.After(*interval):
		case <-ctx.Done():
			return
		}
	}
}
