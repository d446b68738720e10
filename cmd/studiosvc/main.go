package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/you/studiosvc/internal/app"
	"github.com/you/studiosvc/internal/config"
	"github.com/you/studiosvc/internal/logging"
)

func main() {
	boot := logging.New(logging.Options{})
	cfg, err := config.Load()
	if err != nil {
		boot.Error(context.Background(), "config", "error", err)
		os.Exit(1)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, log); err != nil {
		log.Error(context.Background(), "app", "error", err)
		os.Exit(1)
	}
}
