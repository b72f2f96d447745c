package policy

import (
	"context"
	"errors"
	"testing"

	"stack_scout/pkg/stackexchange"
)

var writeCreds = stackexchange.Credentials{Key: "k", AccessToken: "tok"}

// fakeClient records which operations ran.
type fakeClient struct {
	searchResults []stackexchange.Question
	question      *stackexchange.Question

	searchCalls  int
	fetchCalls   int
	postCalls    int
	answerCalls  int
	upvoteCalls  int
	commentCalls int
}

func (f *fakeClient) Search(ctx context.Context, query string, tags []string, pageSize int) ([]stackexchange.Question, error) {
	f.searchCalls++
	return f.searchResults, nil
}

func (f *fakeClient) FetchQuestion(ctx context.Context, questionID int64) (*stackexchange.Question, error) {
	f.fetchCalls++
	return f.question, nil
}

func (f *fakeClient) PostQuestion(ctx context.Context, title, body string, tags []string) (stackexchange.PostRef, error) {
	f.postCalls++
	return stackexchange.PostRef{ID: 1, Link: "https://example.com/q/1"}, nil
}

func (f *fakeClient) PostAnswer(ctx context.Context, questionID int64, body string) (stackexchange.PostRef, error) {
	f.answerCalls++
	return stackexchange.PostRef{ID: 2, Link: "https://example.com/a/2"}, nil
}

func (f *fakeClient) Upvote(ctx context.Context, postID int64) error {
	f.upvoteCalls++
	return nil
}

func (f *fakeClient) PostComment(ctx context.Context, postID int64, body string) (stackexchange.PostRef, error) {
	f.commentCalls++
	return stackexchange.PostRef{ID: 3}, nil
}

func isRejection(t *testing.T, err error) *RejectionError {
	t.Helper()
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected *RejectionError, got %v", err)
	}
	return rej
}

func TestPostQuestionRequiresThreeApproaches(t *testing.T) {
	f := &fakeClient{}
	g := NewGate(f, writeCreds)

	_, err := g.PostQuestion(context.Background(), QuestionDraft{
		Title:           "broken build",
		TriedApproaches: []string{"clean cache", "reinstall"},
	})
	isRejection(t, err)
	if f.searchCalls != 0 || f.postCalls != 0 {
		t.Fatal("approach check must run before any network call")
	}
}

func TestPostQuestionApproachesMustBeDistinct(t *testing.T) {
	f := &fakeClient{}
	g := NewGate(f, writeCreds)

	_, err := g.PostQuestion(context.Background(), QuestionDraft{
		Title:           "broken build",
		TriedApproaches: []string{"clean cache", "Clean Cache ", "clean cache"},
	})
	isRejection(t, err)
	if f.searchCalls != 0 {
		t.Fatal("duplicate approaches must not reach the duplicate search")
	}
}

func TestPostQuestionRejectsDuplicates(t *testing.T) {
	f := &fakeClient{
		searchResults: []stackexchange.Question{{ID: 7, Link: "https://example.com/q/7"}},
	}
	g := NewGate(f, writeCreds)

	_, err := g.PostQuestion(context.Background(), QuestionDraft{
		Title:           "broken build",
		TriedApproaches: []string{"a", "b", "c"},
	})
	rej := isRejection(t, err)
	if rej.Reason == "" {
		t.Fatal("rejection must carry a human-readable reason")
	}
	if f.postCalls != 0 {
		t.Fatal("duplicate hit must not post")
	}
}

func TestPostQuestionRequiresCredentials(t *testing.T) {
	f := &fakeClient{}
	g := NewGate(f, stackexchange.Credentials{})

	_, err := g.PostQuestion(context.Background(), QuestionDraft{
		Title:           "broken build",
		TriedApproaches: []string{"a", "b", "c"},
	})
	var credErr *CredentialsError
	if !errors.As(err, &credErr) {
		t.Fatalf("expected *CredentialsError, got %v", err)
	}
	if f.postCalls != 0 {
		t.Fatal("missing credentials must short-circuit before posting")
	}
}

func TestPostQuestionPermitted(t *testing.T) {
	f := &fakeClient{}
	g := NewGate(f, writeCreds)

	ref, err := g.PostQuestion(context.Background(), QuestionDraft{
		Title:           "broken build",
		Body:            "details",
		Tags:            []string{"go"},
		TriedApproaches: []string{"a", "b", "c"},
		ErrorSignature:  "undefined symbol",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != 1 {
		t.Fatalf("unexpected ref %+v", ref)
	}
	if f.searchCalls != 1 || f.postCalls != 1 {
		t.Fatalf("expected 1 search and 1 post, got %d/%d", f.searchCalls, f.postCalls)
	}
}

func TestPostSolutionRequiresConfirmation(t *testing.T) {
	f := &fakeClient{}
	g := NewGate(f, writeCreds)

	_, err := g.PostSolution(context.Background(), SolutionDraft{
		QuestionID: 5,
		Evidence:   []string{"tests pass"},
	})
	isRejection(t, err)
	if f.fetchCalls != 0 {
		t.Fatal("unconfirmed solution must not reach the network")
	}
}

func TestPostSolutionRequiresEvidence(t *testing.T) {
	g := NewGate(&fakeClient{}, writeCreds)

	_, err := g.PostSolution(context.Background(), SolutionDraft{
		QuestionID:        5,
		ConfirmedResolved: true,
	})
	isRejection(t, err)
}

func TestPostSolutionQuestionNotFound(t *testing.T) {
	g := NewGate(&fakeClient{question: nil}, writeCreds)

	_, err := g.PostSolution(context.Background(), SolutionDraft{
		QuestionID:        5,
		ConfirmedResolved: true,
		Evidence:          []string{"tests pass"},
	})
	isRejection(t, err)
}

func TestPostSolutionRejectsAnsweredQuestion(t *testing.T) {
	for name, q := range map[string]*stackexchange.Question{
		"accepted answer": {ID: 5, AcceptedAnswerID: 50},
		"answer count":    {ID: 5, AnswerCount: 2},
	} {
		f := &fakeClient{question: q}
		g := NewGate(f, writeCreds)

		_, err := g.PostSolution(context.Background(), SolutionDraft{
			QuestionID:        5,
			Body:              "fix",
			ConfirmedResolved: true,
			Evidence:          []string{"tests pass"},
		})
		isRejection(t, err)
		if f.answerCalls != 0 {
			t.Fatalf("%s: must not post", name)
		}
	}
}

func TestPostSolutionPermitted(t *testing.T) {
	f := &fakeClient{question: &stackexchange.Question{ID: 5}}
	g := NewGate(f, writeCreds)

	ref, err := g.PostSolution(context.Background(), SolutionDraft{
		QuestionID:        5,
		Body:              "fix",
		ConfirmedResolved: true,
		Evidence:          []string{"tests pass", "repro gone"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != 2 || f.answerCalls != 1 {
		t.Fatalf("expected posted answer, got %+v calls=%d", ref, f.answerCalls)
	}
}

func TestThumbsUpRequiresConfirmation(t *testing.T) {
	f := &fakeClient{}
	g := NewGate(f, writeCreds)

	err := g.ThumbsUp(context.Background(), 9, false)
	isRejection(t, err)
	if f.upvoteCalls != 0 {
		t.Fatal("unconfirmed thumbs up must not upvote")
	}

	if err := g.ThumbsUp(context.Background(), 9, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.upvoteCalls != 1 {
		t.Fatalf("expected 1 upvote, got %d", f.upvoteCalls)
	}
}

func TestCommentSolutionRejectsAcceptedAnswer(t *testing.T) {
	f := &fakeClient{question: &stackexchange.Question{ID: 5, AcceptedAnswerID: 50}}
	g := NewGate(f, writeCreds)

	_, err := g.CommentSolution(context.Background(), 5, "see also")
	isRejection(t, err)
	if f.commentCalls != 0 {
		t.Fatal("must not comment on a question with an accepted answer")
	}
}

func TestCommentSolutionPermitted(t *testing.T) {
	f := &fakeClient{question: &stackexchange.Question{ID: 5, AnswerCount: 1}}
	g := NewGate(f, writeCreds)

	ref, err := g.CommentSolution(context.Background(), 5, "see also")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != 3 || f.commentCalls != 1 {
		t.Fatalf("expected posted comment, got %+v calls=%d", ref, f.commentCalls)
	}
}
