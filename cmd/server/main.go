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
	"github.com/addhe/infrabot-nlp/pkg/mcp"
	"github.com/addhe/infrabot-nlp/pkg/tools"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting GCP MCP server...")

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

	if err := gcpClient.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("GCP health check failed")
	}
	logger.Info("GCP connectivity verified")

	// MCP clients cannot answer prompts mid-call; destructive operations
	// fail closed unless the client re-issues them through a confirming
	// front end.
	router := tools.NewRouter(gcpClient, gcpClient, gcpClient,
		confirm.NewScriptedGate(), timezones.Cities, logger)

	mcpServer, err := mcp.NewServer(cfg, router, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure MCP server")
	}

	logger.WithField("server_name", cfg.MCP.ServerName).
		WithField("version", cfg.MCP.Version).
		Info("MCP server configured successfully")

	if err := mcpServer.Start(ctx); err != nil && err != context.Canceled {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("MCP server shutdown complete")
}
