// Package mcp exposes the operation catalogue over the Model Context
// Protocol on stdio.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/addhe/infrabot-nlp/internal/config"
	"github.com/addhe/infrabot-nlp/internal/logging"
	"github.com/addhe/infrabot-nlp/pkg/interfaces"
	"github.com/addhe/infrabot-nlp/pkg/tools"
)

type Server struct {
	mcpServer *server.MCPServer

	Config   *config.Config
	Registry interfaces.ToolRegistry
	Router   *tools.Router
	Logger   *logging.Logger
}

// NewServer builds the MCP server and registers every catalogue tool.
// MCP clients cannot answer interactive prompts mid-call, so the router
// passed in should carry a non-interactive gate.
func NewServer(cfg *config.Config, router *tools.Router, logger *logging.Logger) (*Server, error) {
	mcpServer := server.NewMCPServer(
		cfg.MCP.ServerName,
		cfg.MCP.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		Config:    cfg,
		Registry:  tools.NewToolRegistry(logger),
		Router:    router,
		Logger:    logger,
	}

	if err := tools.RegisterAll(s.Registry, router, logger); err != nil {
		return nil, err
	}

	for _, tool := range s.Registry.ListTools() {
		s.registerTool(tool)
	}

	return s, nil
}

// Start begins the stdio message loop for the MCP server
func (s *Server) Start(ctx context.Context) error {
	s.Logger.Info("Starting MCP server message loop on stdio...")
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			s.Logger.Info("Shutdown signal received, stopping server")
			return ctx.Err()
		default:
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			response := s.mcpServer.HandleMessage(ctx, line)
			if response != nil {
				responseBytes, err := json.Marshal(response)
				if err != nil {
					s.Logger.WithError(err).Error("Failed to marshal response")
					continue
				}
				os.Stdout.Write(responseBytes)
				os.Stdout.Write([]byte("\n"))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		s.Logger.WithError(err).Error("Error reading from stdin")
		return err
	}

	return nil
}

func (s *Server) registerTool(tool interfaces.MCPTool) {
	name := tool.Name()

	mcpOptions := []mcp.ToolOption{mcp.WithDescription(tool.Description())}
	if inputSchema := tool.GetInputSchema(); inputSchema != nil {
		mcpOptions = append(mcpOptions, schemaToMCPOptions(inputSchema)...)
	}

	s.mcpServer.AddTool(mcp.NewTool(name, mcpOptions...), s.toolHandler(name))
	s.Logger.WithField("toolName", name).Info("Registered MCP tool with server")
}

// schemaToMCPOptions converts a JSON Schema input description to MCP tool
// options.
func schemaToMCPOptions(schema map[string]interface{}) []mcp.ToolOption {
	var options []mcp.ToolOption

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return options
	}

	required, _ := schema["required"].([]interface{})
	requiredSet := make(map[string]bool)
	for _, req := range required {
		if reqStr, ok := req.(string); ok {
			requiredSet[reqStr] = true
		}
	}

	for propName, propDef := range properties {
		propMap, ok := propDef.(map[string]interface{})
		if !ok {
			continue
		}

		propType, _ := propMap["type"].(string)
		propDesc, _ := propMap["description"].(string)

		var paramOptions []mcp.PropertyOption
		if propDesc != "" {
			paramOptions = append(paramOptions, mcp.Description(propDesc))
		}
		if requiredSet[propName] {
			paramOptions = append(paramOptions, mcp.Required())
		}

		switch propType {
		case "boolean":
			options = append(options, mcp.WithBoolean(propName, paramOptions...))
		case "number", "integer":
			options = append(options, mcp.WithNumber(propName, paramOptions...))
		default:
			options = append(options, mcp.WithString(propName, paramOptions...))
		}
	}

	return options
}

func (s *Server) toolHandler(toolName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arguments, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{mcp.NewTextContent("Invalid arguments format")},
			}, nil
		}

		return s.Registry.ExecuteTool(ctx, toolName, arguments)
	}
}
