package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/agent"
	"github.com/addhe/infrabot-nlp/pkg/confirm"
	"github.com/addhe/infrabot-nlp/pkg/gcp"
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

	gate := confirm.NewInteractiveGate(os.Stdin, os.Stdout, logger)
	router := tools.NewRouter(gcpClient, gcpClient, gcpClient, gate, timezones.Cities, logger)

	infraAgent, err := agent.NewAgent(ctx, &cfg.Agent, router, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize agent")
	}

	if err := infraAgent.TestConnectivity(ctx); err != nil {
		logger.WithError(err).Fatal("LLM connectivity test failed")
	}

	fmt.Println("Infrastructure assistant ready. Type a request, or 'exit' to quit.")
	repl(ctx, infraAgent)
}

func repl(ctx context.Context, infraAgent *agent.Agent) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		request := strings.TrimSpace(scanner.Text())
		if request == "" {
			continue
		}
		if request == "exit" || request == "quit" {
			fmt.Println("Goodbye.")
			return
		}

		res := infraAgent.ProcessRequest(ctx, request)
		if res.Success {
			fmt.Println(res.Message)
		} else {
			fmt.Printf("Error: %s\n", res.Message)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
