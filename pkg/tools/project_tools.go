package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
)

// ListProjectsTool lists projects visible to the active credentials
type ListProjectsTool struct {
	*BaseTool
	router *Router
}

func NewListProjectsTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"environment": map[string]interface{}{
				"type":        "string",
				"description": "Environment filter matched against ID and display name (e.g. 'dev', 'stg', 'prod', 'all')",
			},
		},
	}

	return &ListProjectsTool{
		BaseTool: NewBaseTool("gcp.project.list", "List projects, optionally filtered by environment", "project", inputSchema, logger),
		router:   router,
	}
}

func (t *ListProjectsTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.project.list", arguments))
}

// CreateProjectTool creates a new project
type CreateProjectTool struct {
	*BaseTool
	router *Router
}

func NewCreateProjectTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Project ID: lowercase letters, digits, and hyphens, starting with a letter",
			},
			"display_name": map[string]interface{}{
				"type":        "string",
				"description": "Display name (derived from the ID when omitted)",
			},
		},
		"required": []interface{}{"project_id"},
	}

	return &CreateProjectTool{
		BaseTool: NewBaseTool("gcp.project.create", "Create a new project", "project", inputSchema, logger),
		router:   router,
	}
}

func (t *CreateProjectTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.project.create", arguments))
}

// DeleteProjectTool schedules a project for deletion
type DeleteProjectTool struct {
	*BaseTool
	router *Router
}

func NewDeleteProjectTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the project to delete",
			},
		},
		"required": []interface{}{"project_id"},
	}

	return &DeleteProjectTool{
		BaseTool: NewBaseTool("gcp.project.delete",
			"Schedule a project for deletion (asks for confirmation, recoverable for 30 days)",
			"project", inputSchema, logger),
		router: router,
	}
}

func (t *DeleteProjectTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.project.delete", arguments))
}

// UndeleteProjectTool recovers a project that is pending deletion
type UndeleteProjectTool struct {
	*BaseTool
	router *Router
}

func NewUndeleteProjectTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the project to recover",
			},
		},
		"required": []interface{}{"project_id"},
	}

	return &UndeleteProjectTool{
		BaseTool: NewBaseTool("gcp.project.undelete", "Recover a project that is pending deletion", "project", inputSchema, logger),
		router:   router,
	}
}

func (t *UndeleteProjectTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.project.undelete", arguments))
}
