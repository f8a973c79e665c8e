package bank

import "context"

type ListOpts struct {
	ClassLevel string
	Subject    string
	Chapter    string
	Topic      string
	Type       string
	Difficulty string
	Q          string
	Limit      int
	Offset     int
}

// QuestionPatch is one row of a bulk update; nil fields are left alone.
type QuestionPatch struct {
	ID         string   `json:"id"`
	Text       *string  `json:"text,omitempty"`
	Options    []Option `json:"options,omitempty"`
	Answer     *string  `json:"answer,omitempty"`
	Solution   *string  `json:"solution,omitempty"`
	Difficulty *string  `json:"difficulty,omitempty"`
	Marks      *float64 `json:"marks,omitempty"`
	Topic      *string  `json:"topic,omitempty"`
	Chapter    *string  `json:"chapter,omitempty"`
}

type Store interface {
	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)
	FilterOptions(ctx context.Context, classLevel, subject string) (FilterOptions, error)
	BulkUpdate(ctx context.Context, patches []QuestionPatch) (int, error)
}
