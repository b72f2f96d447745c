package builtin

import (
	"context"
	"strings"

	"stack_scout/pkg/tools"
)

// AnalyzeStackTraceTool extracts the error signature from a stack trace
// and searches for matching questions.
type AnalyzeStackTraceTool struct {
	composer Composer
}

func (t *AnalyzeStackTraceTool) Name() string {
	return "analyze_stack_trace"
}

func (t *AnalyzeStackTraceTool) Description() string {
	return "Extract the error signature from a stack trace and search Stack Overflow for matching questions."
}

func (t *AnalyzeStackTraceTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stackTrace": map[string]any{
				"type":        "string",
				"description": "The raw stack trace to analyze",
			},
			"language": map[string]any{
				"type":        "string",
				"description": "Programming language of the stack trace (added as a tag)",
			},
			"includeComments": map[string]any{
				"type":        "boolean",
				"description": "Also fetch comments for the question and each answer",
			},
			"limit": map[string]any{
				"type":        "number",
				"description": "Maximum number of questions to return",
			},
			"responseFormat": responseFormatSchema,
		},
		"required": []string{"stackTrace", "language"},
	}
}

func (t *AnalyzeStackTraceTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	stackTrace, err := tools.StringArg(input, "stackTrace")
	if err != nil {
		return tools.ToolResult{}, err
	}
	language, err := tools.StringArg(input, "language")
	if err != nil {
		return tools.ToolResult{}, err
	}
	opts, err := parseSearchOptions(input)
	if err != nil {
		return tools.ToolResult{}, err
	}

	signature := ExtractSignature(stackTrace)
	if signature == "" {
		return tools.ToolResult{}, &tools.InvalidInputError{Field: "stackTrace", Reason: "contains no error line"}
	}
	return runSearch(ctx, t.composer, signature, []string{language}, opts)
}

// ExtractSignature picks the error signature out of a stack trace: the
// first line that is not a frame location. Frame lines ("at ...",
// tab-indented Go frames, "File ..." in Python tracebacks) carry
// project-specific paths that would poison the search.
func ExtractSignature(trace string) string {
	for _, line := range strings.Split(trace, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "at ") ||
			strings.HasPrefix(trimmed, "File ") ||
			strings.HasPrefix(trimmed, "Traceback") ||
			strings.HasPrefix(line, "\t") {
			continue
		}
		return trimmed
	}
	return ""
}
