package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/confirm"
	"github.com/addhe/infrabot-nlp/pkg/gcp"
	"github.com/addhe/infrabot-nlp/pkg/tools"
	"github.com/addhe/infrabot-nlp/pkg/web"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting web front door...")

	loader := config.NewConfigLoader("./config")
	timezones, err := loader.LoadTimezones()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load timezone catalogue")
	}
	gcloudCfg, err := loader.LoadGcloudTemplate()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load gcloud settings")
	}

	gcpClient, err := gcp.NewClient(ctx, &cfg.GCP, gcloudCfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize GCP client")
	}
	defer gcpClient.Close()

	// Web dispatches carry their confirmation answers in the request; the
	// default gate denies anything left unanswered.
	router := tools.NewRouter(gcpClient, gcpClient, gcpClient,
		confirm.NewScriptedGate(), timezones.Cities, logger)

	server := web.NewWebServer(cfg, router, logger)
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Web server failed")
	}

	logger.Info("Web server shutdown complete")
}
