// Package tools defines the tool abstraction the MCP server dispatches to.
package tools

import (
	"context"
	"fmt"
)

// Tool is a named, schema-described operation exposed to the host.
type Tool interface {
	// Name returns the unique name of the tool.
	Name() string

	// Description returns a human-readable description of what the tool does.
	Description() string

	// InputSchema returns the JSON Schema for the tool's input parameters.
	InputSchema() map[string]any

	// Execute runs the tool with the given arguments. Malformed input
	// fails with *InvalidInputError before any core logic runs.
	Execute(ctx context.Context, input map[string]any) (ToolResult, error)
}

// ToolResult is the outcome of a tool execution.
type ToolResult struct {
	// Content is the rendered output of the tool.
	Content string

	// IsError indicates an operational failure (policy rejection,
	// remote error) surfaced as tool content rather than a protocol error.
	IsError bool
}

// NewToolResult creates a successful tool result.
func NewToolResult(content string) ToolResult {
	return ToolResult{Content: content}
}

// NewErrorResult creates an error tool result.
func NewErrorResult(err error) ToolResult {
	return ToolResult{
		Content: err.Error(),
		IsError: true,
	}
}

// NewErrorResultf creates an error tool result with a formatted message.
func NewErrorResultf(format string, args ...any) ToolResult {
	return ToolResult{
		Content: fmt.Sprintf(format, args...),
		IsError: true,
	}
}
