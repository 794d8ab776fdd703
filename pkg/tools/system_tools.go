package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
)

// ExecuteCommandTool runs a shell command on the host
type ExecuteCommandTool struct {
	*BaseTool
	router *Router
}

func NewExecuteCommandTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "Shell command to run (e.g. 'ls -la')",
			},
		},
		"required": []interface{}{"command"},
	}

	return &ExecuteCommandTool{
		BaseTool: NewBaseTool("shell.execute", "Run a shell command on the host", "system", inputSchema, logger),
		router:   router,
	}
}

func (t *ExecuteCommandTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "shell.execute", arguments))
}

// CurrentTimeTool reports the current time in a city
type CurrentTimeTool struct {
	*BaseTool
	router *Router
}

func NewCurrentTimeTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"city": map[string]interface{}{
				"type":        "string",
				"description": "City to report the time for (local time when omitted)",
			},
		},
	}

	return &CurrentTimeTool{
		BaseTool: NewBaseTool("time.now", "Report the current time in a city", "system", inputSchema, logger),
		router:   router,
	}
}

func (t *CurrentTimeTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "time.now", arguments))
}
