// Package stackexchange talks to the Stack Exchange question-and-answer API.
package stackexchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"stack_scout/pkg/throttle"
)

const (
	defaultBaseURL = "https://api.stackexchange.com/2.3"
	defaultSite    = "stackoverflow"

	// bodyFilter makes the API include post bodies, which it omits by default.
	bodyFilter = "withbody"
)

// Client issues read and write operations against the Stack Exchange
// API. Every call goes through the shared throttle.Invoker, and the
// HTTP round trip itself is guarded by a circuit breaker that trips on
// consecutive transport failures.
type Client struct {
	baseURL    string
	site       string
	creds      Credentials
	invoker    *throttle.Invoker
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Stack Exchange API client. Empty baseURL and site
// fall back to the public Stack Overflow defaults.
func NewClient(baseURL, site string, creds Credentials, invoker *throttle.Invoker) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if site == "" {
		site = defaultSite
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		site:       site,
		creds:      creds,
		invoker:    invoker,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "stackexchange",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// SetTimeout overrides the HTTP request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// Search runs a full-text plus tag search, sorted by votes descending.
func (c *Client) Search(ctx context.Context, query string, tags []string, pageSize int) ([]Question, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if len(tags) > 0 {
		params.Set("tagged", strings.Join(tags, ";"))
	}
	if pageSize > 0 {
		params.Set("pagesize", strconv.Itoa(pageSize))
	}

	var out []Question
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []Question `json:"items"`
		}
		if err := c.get(ctx, "/search/advanced", params, &wrapper); err != nil {
			return err
		}
		out = wrapper.Items
		return nil
	})
	return out, err
}

// FetchQuestion retrieves a single question, or nil if it does not exist.
func (c *Client) FetchQuestion(ctx context.Context, questionID int64) (*Question, error) {
	var out *Question
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []Question `json:"items"`
		}
		if err := c.get(ctx, fmt.Sprintf("/questions/%d", questionID), url.Values{}, &wrapper); err != nil {
			return err
		}
		if len(wrapper.Items) > 0 {
			out = &wrapper.Items[0]
		}
		return nil
	})
	return out, err
}

// FetchAnswers retrieves a question's answers, sorted by votes descending.
func (c *Client) FetchAnswers(ctx context.Context, questionID int64) ([]Answer, error) {
	var out []Answer
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []Answer `json:"items"`
		}
		if err := c.get(ctx, fmt.Sprintf("/questions/%d/answers", questionID), url.Values{}, &wrapper); err != nil {
			return err
		}
		out = wrapper.Items
		return nil
	})
	return out, err
}

// FetchComments retrieves the comments on a post (question or answer).
func (c *Client) FetchComments(ctx context.Context, postID int64) ([]Comment, error) {
	var out []Comment
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []Comment `json:"items"`
		}
		if err := c.get(ctx, fmt.Sprintf("/posts/%d/comments", postID), url.Values{}, &wrapper); err != nil {
			return err
		}
		out = wrapper.Items
		return nil
	})
	return out, err
}

// PostQuestion creates a new question.
func (c *Client) PostQuestion(ctx context.Context, title, body string, tags []string) (PostRef, error) {
	form := url.Values{}
	form.Set("title", title)
	form.Set("body", body)
	form.Set("tags", strings.Join(tags, ";"))

	var out PostRef
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []struct {
				QuestionID int64  `json:"question_id"`
				Link       string `json:"link"`
			} `json:"items"`
		}
		if err := c.post(ctx, "/questions/add", form, &wrapper); err != nil {
			return err
		}
		if len(wrapper.Items) > 0 {
			out = PostRef{ID: wrapper.Items[0].QuestionID, Link: wrapper.Items[0].Link}
		}
		return nil
	})
	return out, err
}

// PostAnswer creates an answer on a question.
func (c *Client) PostAnswer(ctx context.Context, questionID int64, body string) (PostRef, error) {
	form := url.Values{}
	form.Set("body", body)

	var out PostRef
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []struct {
				AnswerID int64  `json:"answer_id"`
				Link     string `json:"link"`
			} `json:"items"`
		}
		if err := c.post(ctx, fmt.Sprintf("/questions/%d/answers/add", questionID), form, &wrapper); err != nil {
			return err
		}
		if len(wrapper.Items) > 0 {
			out = PostRef{ID: wrapper.Items[0].AnswerID, Link: wrapper.Items[0].Link}
		}
		return nil
	})
	return out, err
}

// Upvote casts an upvote on a post.
func (c *Client) Upvote(ctx context.Context, postID int64) error {
	return c.invoker.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, fmt.Sprintf("/posts/%d/upvote", postID), url.Values{}, nil)
	})
}

// PostComment creates a comment on a post.
func (c *Client) PostComment(ctx context.Context, postID int64, body string) (PostRef, error) {
	form := url.Values{}
	form.Set("body", body)

	var out PostRef
	err := c.invoker.Do(ctx, func(ctx context.Context) error {
		var wrapper struct {
			Items []struct {
				CommentID int64 `json:"comment_id"`
			} `json:"items"`
		}
		if err := c.post(ctx, fmt.Sprintf("/posts/%d/comments/add", postID), form, &wrapper); err != nil {
			return err
		}
		if len(wrapper.Items) > 0 {
			out = PostRef{ID: wrapper.Items[0].CommentID}
		}
		return nil
	})
	return out, err
}

// get issues a read request with the standard site/sort/filter
// parameters and optional credentials appended.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("site", c.site)
	params.Set("sort", "votes")
	params.Set("order", "desc")
	params.Set("filter", bodyFilter)
	if c.creds.Key != "" {
		params.Set("key", c.creds.Key)
	}
	if c.creds.AccessToken != "" {
		params.Set("access_token", c.creds.AccessToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	return c.do(req, out)
}

// post issues a form-encoded write request with site and credentials
// appended when present.
func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	form.Set("site", c.site)
	if c.creds.Key != "" {
		form.Set("key", c.creds.Key)
	}
	if c.creds.AccessToken != "" {
		form.Set("access_token", c.creds.AccessToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		// Breaker-open and connection errors both land here; API-level
		// errors never do, so 429 retry semantics stay intact.
		return &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			ErrorID      int    `json:"error_id"`
			ErrorName    string `json:"error_name"`
			ErrorMessage string `json:"error_message"`
		}
		if jsonErr := json.Unmarshal(data, &payload); jsonErr == nil && (payload.ErrorID != 0 || payload.ErrorName != "") {
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       payload.ErrorID,
				Name:       payload.ErrorName,
				Message:    payload.ErrorMessage,
			}
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &TransportError{Op: "decode response", Err: err}
		}
	}
	return nil
}
