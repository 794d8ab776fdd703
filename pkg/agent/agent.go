// Package agent turns free-text infrastructure requests into catalogue
// operations via an LLM and relays the normalized results back.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/tools"
	"github.com/addhe/infrabot-nlp/pkg/types"
)

// Intent is the structured decision the LLM produces for one request.
// Either Operation (with Params) or Reply is set: Reply carries a plain
// conversational answer when no operation applies.
type Intent struct {
	Operation string                 `json:"operation"`
	Params    map[string]interface{} `json:"params"`
	Reply     string                 `json:"reply"`
}

// Agent resolves natural-language requests against the operation
// catalogue. It never invents operations: the LLM chooses from the
// catalogue the router serves, and the router still validates every
// dispatch.
type Agent struct {
	llm    llms.Model
	router *tools.Router
	config *config.AgentConfig
	logger *logging.Logger
}

func NewAgent(ctx context.Context, cfg *config.AgentConfig, router *tools.Router, logger *logging.Logger) (*Agent, error) {
	llm, err := initializeLLM(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Agent{
		llm:    llm,
		router: router,
		config: cfg,
		logger: logger,
	}, nil
}

// initializeLLM initializes the appropriate LLM based on the provider configuration
func initializeLLM(ctx context.Context, cfg *config.AgentConfig, logger *logging.Logger) (llms.Model, error) {
	provider := strings.ToLower(cfg.Provider)

	logger.WithField("provider", provider).WithField("model", cfg.Model).Info("Initializing LLM")

	switch provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required for provider 'openai'")
		}
		return openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.Model),
		)

	case "gemini", "googleai":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required for provider 'gemini'")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.Model),
		)

	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key is required for provider 'anthropic'")
		}
		return anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s. Supported providers: openai, gemini, anthropic", provider)
	}
}

// TestConnectivity issues a minimal prompt to verify the LLM is reachable.
func (a *Agent) TestConnectivity(ctx context.Context) error {
	testPrompt := "Respond with exactly this JSON: {\"status\": \"ok\"}"

	response, err := llms.GenerateFromSinglePrompt(ctx, a.llm, testPrompt,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(100))
	if err != nil {
		return fmt.Errorf("LLM test call failed: %w", err)
	}
	if len(response) == 0 {
		return fmt.Errorf("LLM returned empty response during connectivity test")
	}
	return nil
}

// ProcessRequest resolves one free-text request into an operation and
// executes it. Conversational replies come back as successful results
// without touching any service.
func (a *Agent) ProcessRequest(ctx context.Context, request string) *types.Result {
	intent, err := a.resolveIntent(ctx, request)
	if err != nil {
		a.logger.WithError(err).Error("Intent resolution failed")
		return types.Fail(types.ErrUnknown,
			fmt.Sprintf("could not understand the request: %v", err), "")
	}

	if intent.Operation == "" {
		reply := intent.Reply
		if reply == "" {
			reply = "I could not map that request to a supported operation."
		}
		return types.Ok(reply, nil)
	}

	a.logger.WithField("operation", intent.Operation).Info("Resolved request to operation")
	return a.router.Dispatch(ctx, intent.Operation, intent.Params)
}

func (a *Agent) resolveIntent(ctx context.Context, request string) (*Intent, error) {
	prompt := a.buildPrompt(request)

	response, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt,
		llms.WithTemperature(a.config.Temperature),
		llms.WithMaxTokens(a.config.MaxTokens))
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	if a.config.EnableDebug {
		a.logger.WithField("response", response).Debug("Raw LLM response")
	}

	var intent Intent
	if err := json.Unmarshal([]byte(extractJSON(response)), &intent); err != nil {
		return nil, fmt.Errorf("LLM response is not valid intent JSON: %w", err)
	}
	if intent.Params == nil {
		intent.Params = map[string]interface{}{}
	}
	return &intent, nil
}

func (a *Agent) buildPrompt(request string) string {
	var b strings.Builder
	b.WriteString("You are an infrastructure assistant for Google Cloud. ")
	b.WriteString("Map the user's request to exactly one operation from the catalogue below, ")
	b.WriteString("or answer conversationally when none applies.\n\nOperation catalogue:\n")

	for _, op := range a.router.Operations() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", op.Name, op.Description))
		for _, p := range op.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			b.WriteString(fmt.Sprintf("    %s (%s, %s)\n", p.Name, p.Type, req))
		}
	}

	b.WriteString("\nRespond with ONLY a JSON object, no prose:\n")
	b.WriteString(`{"operation": "<catalogue name>", "params": {...}}`)
	b.WriteString("\nor, when no operation applies:\n")
	b.WriteString(`{"operation": "", "reply": "<your answer>"}`)
	b.WriteString(fmt.Sprintf("\n\nUser request: %s\n", request))
	return b.String()
}

// extractJSON strips markdown code fences and surrounding prose from an
// LLM response, keeping the outermost JSON object.
func extractJSON(response string) string {
	cleaned := strings.TrimSpace(response)

	if start := strings.Index(cleaned, "```"); start != -1 {
		rest := cleaned[start+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			cleaned = rest[:end]
		} else {
			cleaned = rest
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		return cleaned[start : end+1]
	}
	return cleaned
}
