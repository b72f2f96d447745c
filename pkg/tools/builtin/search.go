// Package builtin provides the Stack Overflow tools exposed over MCP.
package builtin

import (
	"context"

	"stack_scout/pkg/aggregate"
	"stack_scout/pkg/format"
	"stack_scout/pkg/tools"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 30
)

// Composer is the read-side orchestrator behind the search tools.
type Composer interface {
	SearchAndCompose(ctx context.Context, query string, tags []string, opts aggregate.Options) ([]aggregate.CompositeResult, error)
}

// responseFormatSchema is shared by all read tools.
var responseFormatSchema = map[string]any{
	"type":        "string",
	"enum":        []string{"json", "markdown"},
	"description": "Response format: structured JSON or a readable Markdown document (default)",
}

// searchOptions are the arguments common to the read tools.
type searchOptions struct {
	agg  aggregate.Options
	mode format.Mode
}

func parseSearchOptions(input map[string]any) (searchOptions, error) {
	var opts searchOptions

	minScore, err := tools.OptionalIntArg(input, "minScore")
	if err != nil {
		return opts, err
	}
	includeComments, err := tools.BoolArg(input, "includeComments")
	if err != nil {
		return opts, err
	}
	limit, err := tools.OptionalIntArg(input, "limit")
	if err != nil {
		return opts, err
	}
	formatArg, err := tools.OptionalStringArg(input, "responseFormat", "")
	if err != nil {
		return opts, err
	}
	mode, err := format.ParseMode(formatArg)
	if err != nil {
		return opts, &tools.InvalidInputError{Field: "responseFormat", Reason: err.Error()}
	}

	opts.agg = aggregate.Options{
		MinScore:        minScore,
		Limit:           defaultSearchLimit,
		IncludeComments: includeComments,
	}
	if limit != nil && *limit > 0 {
		opts.agg.Limit = *limit
		if opts.agg.Limit > maxSearchLimit {
			opts.agg.Limit = maxSearchLimit
		}
	}
	opts.mode = mode
	return opts, nil
}

func runSearch(ctx context.Context, composer Composer, query string, tags []string, opts searchOptions) (tools.ToolResult, error) {
	results, err := composer.SearchAndCompose(ctx, query, tags, opts.agg)
	if err != nil {
		return tools.NewErrorResult(err), nil
	}
	text, err := format.Render(results, opts.mode)
	if err != nil {
		return tools.NewErrorResult(err), nil
	}
	return tools.NewToolResult(text), nil
}

// SearchByErrorTool finds questions matching an error message.
type SearchByErrorTool struct {
	composer Composer
}

func (t *SearchByErrorTool) Name() string {
	return "search_by_error"
}

func (t *SearchByErrorTool) Description() string {
	return "Search Stack Overflow for questions matching an error message, optionally scoped by language and technologies."
}

func (t *SearchByErrorTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"errorMessage": map[string]any{
				"type":        "string",
				"description": "The error message to search for",
			},
			"language": map[string]any{
				"type":        "string",
				"description": "Programming language (added as a tag)",
			},
			"technologies": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Related technologies (added as tags)",
			},
			"minScore": map[string]any{
				"type":        "number",
				"description": "Only include questions with at least this score",
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
		"required": []string{"errorMessage"},
	}
}

func (t *SearchByErrorTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	errorMessage, err := tools.StringArg(input, "errorMessage")
	if err != nil {
		return tools.ToolResult{}, err
	}
	language, err := tools.OptionalStringArg(input, "language", "")
	if err != nil {
		return tools.ToolResult{}, err
	}
	technologies, err := tools.StringSliceArg(input, "technologies", false)
	if err != nil {
		return tools.ToolResult{}, err
	}
	opts, err := parseSearchOptions(input)
	if err != nil {
		return tools.ToolResult{}, err
	}

	tags := technologies
	if language != "" {
		tags = append(tags, language)
	}
	return runSearch(ctx, t.composer, errorMessage, tags, opts)
}

// SearchByTagsTool finds the top questions for a tag set.
type SearchByTagsTool struct {
	composer Composer
}

func (t *SearchByTagsTool) Name() string {
	return "search_by_tags"
}

func (t *SearchByTagsTool) Description() string {
	return "Search Stack Overflow for the top-voted questions carrying all of the given tags."
}

func (t *SearchByTagsTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Tags that must all be present on the question",
			},
			"minScore": map[string]any{
				"type":        "number",
				"description": "Only include questions with at least this score",
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
		"required": []string{"tags"},
	}
}

func (t *SearchByTagsTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	tags, err := tools.StringSliceArg(input, "tags", true)
	if err != nil {
		return tools.ToolResult{}, err
	}
	opts, err := parseSearchOptions(input)
	if err != nil {
		return tools.ToolResult{}, err
	}
	return runSearch(ctx, t.composer, "", tags, opts)
}
