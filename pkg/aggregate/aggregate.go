// Package aggregate composes multi-call read sequences into composite
// question results.
package aggregate

import (
	"context"

	"stack_scout/pkg/stackexchange"
)

// ReadClient is the read side of the API client the aggregator needs.
type ReadClient interface {
	Search(ctx context.Context, query string, tags []string, pageSize int) ([]stackexchange.Question, error)
	FetchAnswers(ctx context.Context, questionID int64) ([]stackexchange.Answer, error)
	FetchComments(ctx context.Context, postID int64) ([]stackexchange.Comment, error)
}

// Options control a search-and-compose run.
type Options struct {
	// MinScore drops questions scoring below it. Applied client-side;
	// the search endpoint has no score filter.
	MinScore *int

	// Limit is the search page size.
	Limit int

	// IncludeComments pulls comments for the question and every answer.
	IncludeComments bool
}

// CommentsBundle holds the question's comments plus a map from answer
// id to that answer's comments. The map has an entry for every answer
// in the result, possibly empty, and never for answers outside it.
type CommentsBundle struct {
	Question []stackexchange.Comment           `json:"question"`
	ByAnswer map[int64][]stackexchange.Comment `json:"by_answer"`
}

// CompositeResult is one question with its answers (sorted by score
// descending, as returned by the API) and optional comments. Built
// fresh per invocation, never cached.
type CompositeResult struct {
	Question stackexchange.Question `json:"question"`
	Answers  []stackexchange.Answer `json:"answers"`
	Comments *CommentsBundle        `json:"comments,omitempty"`
}

// Aggregator orchestrates search → answers → comments sequences.
type Aggregator struct {
	client ReadClient
}

// New creates an Aggregator over the given read client.
func New(client ReadClient) *Aggregator {
	return &Aggregator{client: client}
}

// SearchAndCompose searches, then fetches answers (and comments when
// requested) for each matching question. Output order follows the
// search order. Any fetch error aborts the whole run; no partial
// results are returned.
func (a *Aggregator) SearchAndCompose(ctx context.Context, query string, tags []string, opts Options) ([]CompositeResult, error) {
	questions, err := a.client.Search(ctx, query, tags, opts.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]CompositeResult, 0, len(questions))
	for _, q := range questions {
		if opts.MinScore != nil && q.Score < *opts.MinScore {
			continue
		}

		answers, err := a.client.FetchAnswers(ctx, q.ID)
		if err != nil {
			return nil, err
		}

		result := CompositeResult{Question: q, Answers: answers}
		if opts.IncludeComments {
			bundle, err := a.fetchComments(ctx, q, answers)
			if err != nil {
				return nil, err
			}
			result.Comments = bundle
		}
		results = append(results, result)
	}
	return results, nil
}

func (a *Aggregator) fetchComments(ctx context.Context, q stackexchange.Question, answers []stackexchange.Answer) (*CommentsBundle, error) {
	questionComments, err := a.client.FetchComments(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	bundle := &CommentsBundle{
		Question: questionComments,
		ByAnswer: make(map[int64][]stackexchange.Comment, len(answers)),
	}
	for _, ans := range answers {
		comments, err := a.client.FetchComments(ctx, ans.ID)
		if err != nil {
			return nil, err
		}
		bundle.ByAnswer[ans.ID] = comments
	}
	return bundle, nil
}
