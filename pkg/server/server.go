// Package server exposes the tool registry over the MCP stdio transport.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"stack_scout/pkg/logging"
	"stack_scout/pkg/tools"
)

// Server bridges registered tools onto an MCP server. The transport
// delivers one tool call at a time; each call runs to completion
// before its response is written.
type Server struct {
	mcp    *mcpserver.MCPServer
	logger *logging.Logger
}

// New creates an MCP server exposing every tool in the registry.
func New(registry *tools.Registry, logger *logging.Logger, version string) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Server{
		mcp: mcpserver.NewMCPServer(
			"stack-scout",
			version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithRecovery(),
		),
		logger: logger,
	}
	for _, tool := range registry.List() {
		if err := s.addTool(tool); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) addTool(tool tools.Tool) error {
	schema, err := json.Marshal(tool.InputSchema())
	if err != nil {
		return fmt.Errorf("marshal schema for %s: %w", tool.Name(), err)
	}
	def := mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schema)
	s.mcp.AddTool(def, s.handler(tool))
	return nil
}

// handler adapts a tool to the MCP call shape. Invalid input surfaces
// as a protocol error; operational failures become error-flagged tool
// content so the caller can read the reason.
func (s *Server) handler(tool tools.Tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.StartInvocation(tool.Name(), "invocation_id", uuid.NewString())

		result, err := tool.Execute(ctx, req.GetArguments())
		if err != nil {
			logger.EndInvocation(err)
			var invalid *tools.InvalidInputError
			if errors.As(err, &invalid) {
				return nil, err
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		if result.IsError {
			logger.EndInvocation(errors.New(result.Content))
			return mcp.NewToolResultError(result.Content), nil
		}
		logger.EndInvocation(nil)
		return mcp.NewToolResultText(result.Content), nil
	}
}

// ServeStdio serves MCP over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}
