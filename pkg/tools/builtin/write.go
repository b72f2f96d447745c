package builtin

import (
	"context"
	"fmt"

	"stack_scout/pkg/policy"
	"stack_scout/pkg/stackexchange"
	"stack_scout/pkg/tools"
)

// WriteGate is the policy layer behind the mutating tools.
type WriteGate interface {
	PostQuestion(ctx context.Context, draft policy.QuestionDraft) (stackexchange.PostRef, error)
	PostSolution(ctx context.Context, draft policy.SolutionDraft) (stackexchange.PostRef, error)
	ThumbsUp(ctx context.Context, postID int64, confirmedFixed bool) error
	CommentSolution(ctx context.Context, questionID int64, body string) (stackexchange.PostRef, error)
}

// PostQuestionTool posts a new question after the policy checks pass.
type PostQuestionTool struct {
	gate WriteGate
}

func (t *PostQuestionTool) Name() string {
	return "post_question"
}

func (t *PostQuestionTool) Description() string {
	return "Post a new question to Stack Overflow. Requires at least three distinct tried approaches and no existing similar question."
}

func (t *PostQuestionTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Question title",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Question body (Markdown)",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Tags for the question",
			},
			"triedApproaches": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Distinct approaches already attempted (at least 3)",
			},
			"errorSignature": map[string]any{
				"type":        "string",
				"description": "Error text used for the duplicate search (defaults to the title)",
			},
		},
		"required": []string{"title", "body", "tags", "triedApproaches"},
	}
}

func (t *PostQuestionTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	title, err := tools.StringArg(input, "title")
	if err != nil {
		return tools.ToolResult{}, err
	}
	body, err := tools.StringArg(input, "body")
	if err != nil {
		return tools.ToolResult{}, err
	}
	tags, err := tools.StringSliceArg(input, "tags", true)
	if err != nil {
		return tools.ToolResult{}, err
	}
	approaches, err := tools.StringSliceArg(input, "triedApproaches", true)
	if err != nil {
		return tools.ToolResult{}, err
	}
	signature, err := tools.OptionalStringArg(input, "errorSignature", "")
	if err != nil {
		return tools.ToolResult{}, err
	}

	ref, err := t.gate.PostQuestion(ctx, policy.QuestionDraft{
		Title:           title,
		Body:            body,
		Tags:            tags,
		TriedApproaches: approaches,
		ErrorSignature:  signature,
	})
	if err != nil {
		return tools.NewErrorResult(err), nil
	}
	return tools.NewToolResult(fmt.Sprintf("Question posted: %s (id %d)", ref.Link, ref.ID)), nil
}

// PostSolutionTool posts an answer after the policy checks pass.
type PostSolutionTool struct {
	gate WriteGate
}

func (t *PostSolutionTool) Name() string {
	return "post_solution"
}

func (t *PostSolutionTool) Description() string {
	return "Post a confirmed, evidence-backed solution as an answer. Rejected when the question already has answers."
}

func (t *PostSolutionTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questionId": map[string]any{
				"type":        "number",
				"description": "Target question id",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Answer body (Markdown)",
			},
			"confirmedResolved": map[string]any{
				"type":        "boolean",
				"description": "Whether the fix was actually confirmed to resolve the problem",
			},
			"evidence": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Evidence that the fix works (test output, reproduction steps)",
			},
		},
		"required": []string{"questionId", "body", "confirmedResolved", "evidence"},
	}
}

func (t *PostSolutionTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	questionID, err := tools.IntArg(input, "questionId")
	if err != nil {
		return tools.ToolResult{}, err
	}
	body, err := tools.StringArg(input, "body")
	if err != nil {
		return tools.ToolResult{}, err
	}
	confirmed, err := tools.BoolArg(input, "confirmedResolved")
	if err != nil {
		return tools.ToolResult{}, err
	}
	evidence, err := tools.StringSliceArg(input, "evidence", false)
	if err != nil {
		return tools.ToolResult{}, err
	}

	ref, err := t.gate.PostSolution(ctx, policy.SolutionDraft{
		QuestionID:        questionID,
		Body:              body,
		ConfirmedResolved: confirmed,
		Evidence:          evidence,
	})
	if err != nil {
		return tools.NewErrorResult(err), nil
	}
	return tools.NewToolResult(fmt.Sprintf("Solution posted: %s (id %d)", ref.Link, ref.ID)), nil
}

// ThumbsUpTool upvotes a post that fixed the caller's problem.
type ThumbsUpTool struct {
	gate WriteGate
}

func (t *ThumbsUpTool) Name() string {
	return "thumbs_up"
}

func (t *ThumbsUpTool) Description() string {
	return "Upvote a question or answer that actually fixed the problem."
}

func (t *ThumbsUpTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"postId": map[string]any{
				"type":        "number",
				"description": "Post id (question or answer) to upvote",
			},
			"confirmedFixed": map[string]any{
				"type":        "boolean",
				"description": "Whether the post's content was confirmed to fix the problem",
			},
		},
		"required": []string{"postId", "confirmedFixed"},
	}
}

func (t *ThumbsUpTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	postID, err := tools.IntArg(input, "postId")
	if err != nil {
		return tools.ToolResult{}, err
	}
	confirmed, err := tools.BoolArg(input, "confirmedFixed")
	if err != nil {
		return tools.ToolResult{}, err
	}

	if err := t.gate.ThumbsUp(ctx, postID, confirmed); err != nil {
		return tools.NewErrorResult(err), nil
	}
	return tools.NewToolResult(fmt.Sprintf("Upvoted post %d", postID)), nil
}

// CommentSolutionTool comments on a question without an accepted answer.
type CommentSolutionTool struct {
	gate WriteGate
}

func (t *CommentSolutionTool) Name() string {
	return "comment_solution"
}

func (t *CommentSolutionTool) Description() string {
	return "Comment a workaround or pointer on a question that has no accepted answer yet."
}

func (t *CommentSolutionTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questionId": map[string]any{
				"type":        "number",
				"description": "Target question id",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Comment body",
			},
		},
		"required": []string{"questionId", "body"},
	}
}

func (t *CommentSolutionTool) Execute(ctx context.Context, input map[string]any) (tools.ToolResult, error) {
	questionID, err := tools.IntArg(input, "questionId")
	if err != nil {
		return tools.ToolResult{}, err
	}
	body, err := tools.StringArg(input, "body")
	if err != nil {
		return tools.ToolResult{}, err
	}

	ref, err := t.gate.CommentSolution(ctx, questionID, body)
	if err != nil {
		return tools.NewErrorResult(err), nil
	}
	return tools.NewToolResult(fmt.Sprintf("Comment posted (id %d)", ref.ID)), nil
}
