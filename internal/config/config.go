package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the main configuration structure
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	GCP     GCPConfig     `mapstructure:"gcp"`
	MCP     MCPConfig     `mapstructure:"mcp"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Logging LoggingConfig `mapstructure:"logging"`
	Web     WebConfig     `mapstructure:"web"`
}

// ServerConfig contains general server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// GCPConfig contains Google Cloud specific configuration. Project and
// region are the defaults used when a request does not name them; the
// gcloud settings drive the CLI fallback path.
type GCPConfig struct {
	Project         string `mapstructure:"project"`
	Region          string `mapstructure:"region"`
	CredentialsFile string `mapstructure:"credentials_file"`
	GcloudBinary    string `mapstructure:"gcloud_binary"`
}

// MCPConfig contains Model Context Protocol configuration
type MCPConfig struct {
	ServerName string `mapstructure:"server_name"`
	Version    string `mapstructure:"version"`
}

// AgentConfig contains configuration for the AI agent
type AgentConfig struct {
	Provider        string  `mapstructure:"provider"` // openai, gemini, anthropic
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"`
	GeminiAPIKey    string  `mapstructure:"gemini_api_key"`
	AnthropicAPIKey string  `mapstructure:"anthropic_api_key"`
	Model           string  `mapstructure:"model"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	EnableDebug     bool    `mapstructure:"enable_debug"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// WebConfig contains web server configuration
type WebConfig struct {
	Port             int    `mapstructure:"port"`
	Host             string `mapstructure:"host"`
	EnableWebSockets bool   `mapstructure:"enable_websockets"`
}

// Load loads configuration from file, environment variables, and defaults
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.infrabot")

	// Environment variable support
	viper.SetEnvPrefix("INFRABOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Try to read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables for sensitive data
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Agent.OpenAIAPIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Agent.GeminiAPIKey = apiKey
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Agent.AnthropicAPIKey = apiKey
	}
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		config.GCP.Project = project
	}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		config.GCP.CredentialsFile = creds
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.host", "localhost")

	// GCP defaults
	viper.SetDefault("gcp.region", "asia-southeast2")
	viper.SetDefault("gcp.gcloud_binary", "gcloud")

	// MCP defaults
	viper.SetDefault("mcp.server_name", "infrabot-nlp")
	viper.SetDefault("mcp.version", "1.0.0")

	// Agent defaults
	viper.SetDefault("agent.provider", "gemini")
	viper.SetDefault("agent.model", "gemini-2.0-flash")
	viper.SetDefault("agent.max_tokens", 4000)
	viper.SetDefault("agent.temperature", 0.2)
	viper.SetDefault("agent.enable_debug", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stdout")

	// Web defaults
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("web.host", "localhost")
	viper.SetDefault("web.enable_websockets", true)
}

// GetWebPort returns the web server port (fallback to server port if not set)
func (c *Config) GetWebPort() int {
	if c.Web.Port != 0 {
		return c.Web.Port
	}
	return c.Server.Port
}

// IsProductionMode returns true if running in production mode
func (c *Config) IsProductionMode() bool {
	return c.Logging.Level != "debug"
}
