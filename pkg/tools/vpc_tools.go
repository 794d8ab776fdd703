package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
)

// CreateVPCTool creates a VPC network through the operation router
type CreateVPCTool struct {
	*BaseTool
	router *Router
}

func NewCreateVPCTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the VPC network",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
			"subnet_mode": map[string]interface{}{
				"type":        "string",
				"description": "Subnet creation mode: 'auto' or 'custom' (default 'auto')",
			},
			"routing_mode": map[string]interface{}{
				"type":        "string",
				"description": "Dynamic routing mode: 'global' or 'regional' (default 'global')",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Free-form description of the network",
			},
		},
		"required": []interface{}{"name"},
	}

	return &CreateVPCTool{
		BaseTool: NewBaseTool("gcp.vpc.create", "Create a VPC network", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *CreateVPCTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.vpc.create", arguments))
}

// ListVPCsTool lists the VPC networks in a project
type ListVPCsTool struct {
	*BaseTool
	router *Router
}

func NewListVPCsTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
		},
	}

	return &ListVPCsTool{
		BaseTool: NewBaseTool("gcp.vpc.list", "List VPC networks in a project", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *ListVPCsTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.vpc.list", arguments))
}

// GetVPCTool describes a single VPC network
type GetVPCTool struct {
	*BaseTool
	router *Router
}

func NewGetVPCTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the VPC network",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
		},
		"required": []interface{}{"name"},
	}

	return &GetVPCTool{
		BaseTool: NewBaseTool("gcp.vpc.get", "Describe a single VPC network", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *GetVPCTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.vpc.get", arguments))
}

// DeleteVPCTool deletes a VPC network after operator confirmation
type DeleteVPCTool struct {
	*BaseTool
	router *Router
}

func NewDeleteVPCTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the VPC network to delete",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
		},
		"required": []interface{}{"name"},
	}

	return &DeleteVPCTool{
		BaseTool: NewBaseTool("gcp.vpc.delete", "Delete a VPC network (asks for confirmation)", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *DeleteVPCTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.vpc.delete", arguments))
}

// DeleteVPCCascadeTool deletes a VPC together with all its subnets
type DeleteVPCCascadeTool struct {
	*BaseTool
	router *Router
}

func NewDeleteVPCCascadeTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the VPC network to delete",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
			"confirm_each_subnet": map[string]interface{}{
				"type":        "boolean",
				"description": "Ask before deleting every individual subnet",
			},
		},
		"required": []interface{}{"name"},
	}

	return &DeleteVPCCascadeTool{
		BaseTool: NewBaseTool("gcp.vpc.deleteCascade",
			"Delete a VPC network together with all its subnets (asks for confirmation)",
			"networking", inputSchema, logger),
		router: router,
	}
}

func (t *DeleteVPCCascadeTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.vpc.deleteCascade", arguments))
}
