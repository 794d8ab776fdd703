package tools

import (
	"fmt"

	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
)

// RegisterAll builds the full tool set over a router and registers every
// tool. The set mirrors the operation catalogue one to one.
func RegisterAll(registry interfaces.ToolRegistry, router *Router, logger *logging.Logger) error {
	builders := []func(*Router, *logging.Logger) interfaces.MCPTool{
		NewCreateVPCTool,
		NewListVPCsTool,
		NewGetVPCTool,
		NewDeleteVPCTool,
		NewDeleteVPCCascadeTool,
		NewCreateSubnetTool,
		NewListSubnetsTool,
		NewDeleteSubnetTool,
		NewSetPrivateGoogleAccessTool,
		NewListProjectsTool,
		NewCreateProjectTool,
		NewDeleteProjectTool,
		NewUndeleteProjectTool,
		NewExecuteCommandTool,
		NewCurrentTimeTool,
	}

	for _, build := range builders {
		tool := build(router, logger)
		if err := registry.Register(tool); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", tool.Name(), err)
		}
	}
	return nil
}
