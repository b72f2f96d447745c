// Package format renders composite results as JSON or Markdown.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"stack_scout/pkg/aggregate"
	"stack_scout/pkg/stackexchange"
)

// Mode selects the output representation.
type Mode string

const (
	// ModeJSON is a direct serialization preserving every field.
	ModeJSON Mode = "json"

	// ModeMarkdown is a human-readable document.
	ModeMarkdown Mode = "markdown"
)

// ParseMode maps a tool argument to a Mode. Empty input defaults to
// Markdown.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeMarkdown):
		return ModeMarkdown, nil
	case string(ModeJSON):
		return ModeJSON, nil
	default:
		return "", fmt.Errorf("unknown response format %q (want %q or %q)", s, ModeJSON, ModeMarkdown)
	}
}

// Render formats the result sequence. Empty input renders as "[]" in
// JSON mode and as an empty string in Markdown mode.
func Render(results []aggregate.CompositeResult, mode Mode) (string, error) {
	switch mode {
	case ModeJSON:
		if results == nil {
			results = []aggregate.CompositeResult{}
		}
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ModeMarkdown:
		return renderMarkdown(results), nil
	default:
		return "", fmt.Errorf("unknown render mode %q", mode)
	}
}

func renderMarkdown(results []aggregate.CompositeResult) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeResult(&sb, r)
	}
	return sb.String()
}

func writeResult(sb *strings.Builder, r aggregate.CompositeResult) {
	q := r.Question
	fmt.Fprintf(sb, "## %s\n\n", q.Title)
	fmt.Fprintf(sb, "Score: %d | Answers: %d\n\n", q.Score, q.AnswerCount)
	if q.Body != "" {
		sb.WriteString(q.Body)
		sb.WriteString("\n\n")
	}
	if r.Comments != nil && len(r.Comments.Question) > 0 {
		sb.WriteString("**Comments:**\n")
		writeCommentList(sb, r.Comments.Question)
		sb.WriteString("\n")
	}

	for _, ans := range r.Answers {
		if ans.IsAccepted {
			fmt.Fprintf(sb, "### ✓ Accepted Answer (score %d)\n\n", ans.Score)
		} else {
			fmt.Fprintf(sb, "### Answer (score %d)\n\n", ans.Score)
		}
		if ans.Body != "" {
			sb.WriteString(ans.Body)
			sb.WriteString("\n\n")
		}
		if r.Comments != nil {
			if comments := r.Comments.ByAnswer[ans.ID]; len(comments) > 0 {
				sb.WriteString("**Comments:**\n")
				writeCommentList(sb, comments)
				sb.WriteString("\n")
			}
		}
	}

	if q.Link != "" {
		fmt.Fprintf(sb, "[View on Stack Overflow](%s)\n", q.Link)
	}
}

func writeCommentList(sb *strings.Builder, comments []stackexchange.Comment) {
	for _, c := range comments {
		fmt.Fprintf(sb, "- %s (%d)\n", c.Body, c.Score)
	}
}
