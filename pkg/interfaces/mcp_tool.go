package interfaces

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool defines the interface for all MCP (Model Context Protocol) tools
// This enables uniform registration, discovery, and execution of tools by AI agents
type MCPTool interface {
	// Tool identification
	Name() string
	Description() string
	Category() string // e.g., "networking", "project", "system"

	// Tool execution
	Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error)

	// Tool metadata for AI agent discovery
	GetInputSchema() map[string]interface{}
	GetOutputSchema() map[string]interface{}

	// Validation
	ValidateArguments(arguments map[string]interface{}) error
}

// ToolRegistry manages registration and discovery of MCP tools
type ToolRegistry interface {
	// Registration
	Register(tool MCPTool) error
	Unregister(name string) error

	// Discovery
	GetTool(name string) (MCPTool, bool)
	ListTools() []MCPTool
	ListToolsByCategory(category string) []MCPTool

	// Execution
	ExecuteTool(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error)

	// AI Agent helpers
	GetToolSchemas() map[string]interface{}
}
