package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
)

// CreateSubnetTool creates a subnet in a VPC network
type CreateSubnetTool struct {
	*BaseTool
	router *Router
}

func NewCreateSubnetTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the subnet",
			},
			"network": map[string]interface{}{
				"type":        "string",
				"description": "VPC network the subnet belongs to",
			},
			"region": map[string]interface{}{
				"type":        "string",
				"description": "Region for the subnet (e.g. 'asia-southeast2')",
			},
			"cidr_range": map[string]interface{}{
				"type":        "string",
				"description": "Primary IPv4 range (e.g. '10.0.0.0/24')",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
			"private_google_access": map[string]interface{}{
				"type":        "boolean",
				"description": "Enable Private Google Access at creation",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Free-form description of the subnet",
			},
		},
		"required": []interface{}{"name", "network", "region", "cidr_range"},
	}

	return &CreateSubnetTool{
		BaseTool: NewBaseTool("gcp.subnet.create", "Create a subnet in a VPC network", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *CreateSubnetTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.subnet.create", arguments))
}

// ListSubnetsTool lists the subnets of a VPC network
type ListSubnetsTool struct {
	*BaseTool
	router *Router
}

func NewListSubnetsTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"network": map[string]interface{}{
				"type":        "string",
				"description": "VPC network whose subnets to list",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
		},
		"required": []interface{}{"network"},
	}

	return &ListSubnetsTool{
		BaseTool: NewBaseTool("gcp.subnet.list", "List the subnets of a VPC network", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *ListSubnetsTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.subnet.list", arguments))
}

// DeleteSubnetTool deletes a subnet after operator confirmation
type DeleteSubnetTool struct {
	*BaseTool
	router *Router
}

func NewDeleteSubnetTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the subnet to delete",
			},
			"region": map[string]interface{}{
				"type":        "string",
				"description": "Region the subnet lives in",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
		},
		"required": []interface{}{"name", "region"},
	}

	return &DeleteSubnetTool{
		BaseTool: NewBaseTool("gcp.subnet.delete", "Delete a subnet (asks for confirmation)", "networking", inputSchema, logger),
		router:   router,
	}
}

func (t *DeleteSubnetTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.subnet.delete", arguments))
}

// SetPrivateGoogleAccessTool toggles Private Google Access on a subnet
type SetPrivateGoogleAccessTool struct {
	*BaseTool
	router *Router
}

func NewSetPrivateGoogleAccessTool(router *Router, logger *logging.Logger) interfaces.MCPTool {
	inputSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the subnet to update",
			},
			"region": map[string]interface{}{
				"type":        "string",
				"description": "Region the subnet lives in",
			},
			"enabled": map[string]interface{}{
				"type":        "boolean",
				"description": "Desired Private Google Access setting",
			},
			"project": map[string]interface{}{
				"type":        "string",
				"description": "Project ID (defaults to the configured project)",
			},
		},
		"required": []interface{}{"name", "region", "enabled"},
	}

	return &SetPrivateGoogleAccessTool{
		BaseTool: NewBaseTool("gcp.subnet.setPrivateGoogleAccess",
			"Enable or disable Private Google Access on a subnet",
			"networking", inputSchema, logger),
		router: router,
	}
}

func (t *SetPrivateGoogleAccessTool) Execute(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	return t.CreateResultResponse(t.router.Dispatch(ctx, "gcp.subnet.setPrivateGoogleAccess", arguments))
}
