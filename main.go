package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fanclub-cms/matchdesk/app"
	"github.com/fanclub-cms/matchdesk/app/observability"
	"github.com/fanclub-cms/matchdesk/app/observability/attr"
	"github.com/fanclub-cms/matchdesk/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs, err := observability.Init(ctx, cfg.Observability)
	if err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}
	logger := obs.Logger
	logger.InfoContext(ctx, "Starting matchdesk", attr.String("environment", cfg.Observability.Environment))

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		logger.ErrorContext(ctx, "Failed to initialize application", attr.Error(err))
		application.Close()
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", attr.Error(err))
	}

	logger.Info("Shutting down matchdesk")
	application.Close()
}
