package stackexchange

// Question is an immutable snapshot of a question as returned by the API.
type Question struct {
	ID               int64    `json:"question_id"`
	Title            string   `json:"title"`
	Body             string   `json:"body,omitempty"`
	Score            int      `json:"score"`
	AnswerCount      int      `json:"answer_count"`
	IsAnswered       bool     `json:"is_answered"`
	AcceptedAnswerID int64    `json:"accepted_answer_id,omitempty"`
	CreationDate     int64    `json:"creation_date"`
	Tags             []string `json:"tags"`
	Link             string   `json:"link"`
}

// Answer belongs to exactly one question. At most one answer per
// question has IsAccepted set.
type Answer struct {
	ID           int64  `json:"answer_id"`
	QuestionID   int64  `json:"question_id"`
	Score        int    `json:"score"`
	IsAccepted   bool   `json:"is_accepted"`
	Body         string `json:"body,omitempty"`
	CreationDate int64  `json:"creation_date"`
	Link         string `json:"link,omitempty"`
}

// Comment belongs to a post (question or answer).
type Comment struct {
	ID           int64  `json:"comment_id"`
	PostID       int64  `json:"post_id"`
	Score        int    `json:"score"`
	Body         string `json:"body,omitempty"`
	CreationDate int64  `json:"creation_date"`
}

// PostRef identifies content created by a write operation.
type PostRef struct {
	ID   int64  `json:"id"`
	Link string `json:"link,omitempty"`
}

// Credentials holds the optional API key and OAuth access token.
// Both are loaded once at startup; absence of either is valid for
// read-only use.
type Credentials struct {
	Key         string
	AccessToken string
}

// CanWrite reports whether write operations are possible. The API
// requires both the key and the access token on every write.
func (c Credentials) CanWrite() bool {
	return c.Key != "" && c.AccessToken != ""
}
