package aggregate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stack_scout/pkg/stackexchange"
)

// fakeClient serves canned questions/answers/comments and counts calls.
type fakeClient struct {
	questions []stackexchange.Question
	answers   map[int64][]stackexchange.Answer
	comments  map[int64][]stackexchange.Comment

	searchCalls  int
	answerCalls  int
	commentCalls int

	failComments bool
}

func (f *fakeClient) Search(ctx context.Context, query string, tags []string, pageSize int) ([]stackexchange.Question, error) {
	f.searchCalls++
	return f.questions, nil
}

func (f *fakeClient) FetchAnswers(ctx context.Context, questionID int64) ([]stackexchange.Answer, error) {
	f.answerCalls++
	return f.answers[questionID], nil
}

func (f *fakeClient) FetchComments(ctx context.Context, postID int64) ([]stackexchange.Comment, error) {
	f.commentCalls++
	if f.failComments {
		return nil, errors.New("comments unavailable")
	}
	return f.comments[postID], nil
}

func question(id int64, score int) stackexchange.Question {
	return stackexchange.Question{
		ID:    id,
		Title: fmt.Sprintf("question %d", id),
		Score: score,
		Tags:  []string{"go"},
		Link:  fmt.Sprintf("https://example.com/q/%d", id),
	}
}

func answer(id, questionID int64, score int) stackexchange.Answer {
	return stackexchange.Answer{ID: id, QuestionID: questionID, Score: score}
}

func TestSearchAndComposeCallCounts(t *testing.T) {
	// 2 questions with 2 and 1 answers: expect 1 search + 3 answer
	// fetches... answers are fetched per question (2 calls), comments
	// for 2 questions + 3 answers.
	f := &fakeClient{
		questions: []stackexchange.Question{question(1, 10), question(2, 5)},
		answers: map[int64][]stackexchange.Answer{
			1: {answer(11, 1, 4), answer(12, 1, 2)},
			2: {answer(21, 2, 1)},
		},
		comments: map[int64][]stackexchange.Comment{
			1:  {{ID: 100, PostID: 1, Body: "q1 comment"}},
			11: {{ID: 101, PostID: 11, Body: "a11 comment"}},
		},
	}
	agg := New(f)

	results, err := agg.SearchAndCompose(context.Background(), "query", nil, Options{IncludeComments: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.searchCalls != 1 {
		t.Fatalf("expected 1 search call, got %d", f.searchCalls)
	}
	if f.answerCalls != 2 {
		t.Fatalf("expected 2 answer calls, got %d", f.answerCalls)
	}
	// N question-comment calls + sum(A_i) answer-comment calls = 2 + 3.
	if f.commentCalls != 5 {
		t.Fatalf("expected 5 comment calls, got %d", f.commentCalls)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, want := range []int{2, 1} {
		bundle := results[i].Comments
		if bundle == nil {
			t.Fatalf("result %d missing comments bundle", i)
		}
		if len(bundle.ByAnswer) != want {
			t.Fatalf("result %d: expected %d answer-comment entries, got %d", i, want, len(bundle.ByAnswer))
		}
		for _, ans := range results[i].Answers {
			if _, ok := bundle.ByAnswer[ans.ID]; !ok {
				t.Fatalf("result %d: missing comment entry for answer %d", i, ans.ID)
			}
		}
	}
}

func TestSearchAndComposeMinScoreFilter(t *testing.T) {
	f := &fakeClient{
		questions: []stackexchange.Question{question(1, 10), question(2, 1), question(3, 7)},
		answers:   map[int64][]stackexchange.Answer{},
	}
	agg := New(f)

	minScore := 5
	results, err := agg.SearchAndCompose(context.Background(), "q", nil, Options{MinScore: &minScore})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after filter, got %d", len(results))
	}
	// Order must follow the search order.
	if results[0].Question.ID != 1 || results[1].Question.ID != 3 {
		t.Fatalf("order not preserved: %d, %d", results[0].Question.ID, results[1].Question.ID)
	}
	// Filtered questions must not cost answer fetches.
	if f.answerCalls != 2 {
		t.Fatalf("expected 2 answer calls, got %d", f.answerCalls)
	}
}

func TestSearchAndComposeWithoutComments(t *testing.T) {
	f := &fakeClient{
		questions: []stackexchange.Question{question(1, 3)},
		answers:   map[int64][]stackexchange.Answer{1: {answer(11, 1, 1)}},
	}
	agg := New(f)

	results, err := agg.SearchAndCompose(context.Background(), "q", nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.commentCalls != 0 {
		t.Fatalf("expected no comment calls, got %d", f.commentCalls)
	}
	if results[0].Comments != nil {
		t.Fatal("comments bundle should be absent")
	}
}

func TestSearchAndComposeAllOrNothing(t *testing.T) {
	f := &fakeClient{
		questions:    []stackexchange.Question{question(1, 3), question(2, 4)},
		answers:      map[int64][]stackexchange.Answer{},
		failComments: true,
	}
	agg := New(f)

	results, err := agg.SearchAndCompose(context.Background(), "q", nil, Options{IncludeComments: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if results != nil {
		t.Fatalf("no partial results on failure, got %d", len(results))
	}
}

func TestSearchAndComposeEmptySearch(t *testing.T) {
	agg := New(&fakeClient{})

	results, err := agg.SearchAndCompose(context.Background(), "nothing", nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", results)
	}
}
