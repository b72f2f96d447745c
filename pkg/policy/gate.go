// Package policy gates every mutating operation behind precondition
// checks. The system is invoked autonomously, so rejection is the safe
// default whenever a precondition cannot be confirmed.
package policy

import (
	"context"
	"fmt"
	"strings"

	"stack_scout/pkg/stackexchange"
)

// MinTriedApproaches is how many distinct attempted fixes a caller must
// report before a new question may be posted.
const MinTriedApproaches = 3

// duplicateSearchSize bounds the duplicate check to a handful of hits.
const duplicateSearchSize = 3

// Client is the slice of the API client the gate needs.
type Client interface {
	Search(ctx context.Context, query string, tags []string, pageSize int) ([]stackexchange.Question, error)
	FetchQuestion(ctx context.Context, questionID int64) (*stackexchange.Question, error)
	PostQuestion(ctx context.Context, title, body string, tags []string) (stackexchange.PostRef, error)
	PostAnswer(ctx context.Context, questionID int64, body string) (stackexchange.PostRef, error)
	Upvote(ctx context.Context, postID int64) error
	PostComment(ctx context.Context, postID int64, body string) (stackexchange.PostRef, error)
}

// RejectionError means a write precondition failed. Never retried.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return "write rejected: " + e.Reason
}

func reject(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// CredentialsError means the write credentials are not configured.
type CredentialsError struct {
	Op string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("%s requires STACKOVERFLOW_API_KEY and STACKOVERFLOW_ACCESS_TOKEN", e.Op)
}

// QuestionDraft is the input for a gated question post.
type QuestionDraft struct {
	Title           string
	Body            string
	Tags            []string
	TriedApproaches []string
	// ErrorSignature is the text used for the duplicate search; the
	// title is used when it is empty.
	ErrorSignature string
}

// SolutionDraft is the input for a gated answer post.
type SolutionDraft struct {
	QuestionID        int64
	Body              string
	ConfirmedResolved bool
	Evidence          []string
}

// Gate runs precondition checks before each write operation.
type Gate struct {
	client Client
	creds  stackexchange.Credentials
}

// NewGate creates a write-policy gate.
func NewGate(client Client, creds stackexchange.Credentials) *Gate {
	return &Gate{client: client, creds: creds}
}

// PostQuestion posts a new question if the caller tried enough distinct
// approaches and no similar question already exists. The approach check
// runs before any network call.
func (g *Gate) PostQuestion(ctx context.Context, draft QuestionDraft) (stackexchange.PostRef, error) {
	if n := countDistinct(draft.TriedApproaches); n < MinTriedApproaches {
		return stackexchange.PostRef{}, reject("need at least %d distinct tried approaches before posting, got %d", MinTriedApproaches, n)
	}

	searchText := draft.ErrorSignature
	if searchText == "" {
		searchText = draft.Title
	}
	dupes, err := g.client.Search(ctx, searchText, draft.Tags, duplicateSearchSize)
	if err != nil {
		return stackexchange.PostRef{}, err
	}
	if len(dupes) > 0 {
		return stackexchange.PostRef{}, reject("a similar question already exists: %s", dupes[0].Link)
	}

	if !g.creds.CanWrite() {
		return stackexchange.PostRef{}, &CredentialsError{Op: "post_question"}
	}
	return g.client.PostQuestion(ctx, draft.Title, draft.Body, draft.Tags)
}

// PostSolution posts an answer only when the fix is confirmed with
// evidence and the question has no answers yet. An existing answer
// rejects even when unrelated; there is no similarity check.
func (g *Gate) PostSolution(ctx context.Context, draft SolutionDraft) (stackexchange.PostRef, error) {
	if !draft.ConfirmedResolved {
		return stackexchange.PostRef{}, reject("solution is not confirmed resolved")
	}
	if len(draft.Evidence) == 0 {
		return stackexchange.PostRef{}, reject("evidence is required to post a solution")
	}

	q, err := g.client.FetchQuestion(ctx, draft.QuestionID)
	if err != nil {
		return stackexchange.PostRef{}, err
	}
	if q == nil {
		return stackexchange.PostRef{}, reject("question %d not found", draft.QuestionID)
	}
	if q.AcceptedAnswerID != 0 || q.AnswerCount > 0 {
		return stackexchange.PostRef{}, reject("question %d already has answers", draft.QuestionID)
	}

	if !g.creds.CanWrite() {
		return stackexchange.PostRef{}, &CredentialsError{Op: "post_solution"}
	}
	return g.client.PostAnswer(ctx, draft.QuestionID, draft.Body)
}

// ThumbsUp upvotes a post once the caller confirms the content fixed
// their problem. Upvoting has no existing-content concept to check.
func (g *Gate) ThumbsUp(ctx context.Context, postID int64, confirmedFixed bool) error {
	if !confirmedFixed {
		return reject("upvote requires a confirmed fix")
	}
	if !g.creds.CanWrite() {
		return &CredentialsError{Op: "thumbs_up"}
	}
	return g.client.Upvote(ctx, postID)
}

// CommentSolution comments on a question that does not have an
// accepted answer yet.
func (g *Gate) CommentSolution(ctx context.Context, questionID int64, body string) (stackexchange.PostRef, error) {
	q, err := g.client.FetchQuestion(ctx, questionID)
	if err != nil {
		return stackexchange.PostRef{}, err
	}
	if q == nil {
		return stackexchange.PostRef{}, reject("question %d not found", questionID)
	}
	if q.AcceptedAnswerID != 0 {
		return stackexchange.PostRef{}, reject("question %d already has an accepted answer", questionID)
	}

	if !g.creds.CanWrite() {
		return stackexchange.PostRef{}, &CredentialsError{Op: "comment_solution"}
	}
	return g.client.PostComment(ctx, questionID, body)
}

func countDistinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
