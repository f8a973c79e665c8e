package exam

import "context"

type ListOpts struct {
	Q          string
	ClassLevel string
	Limit      int
	Offset     int
	ViewerID   string
	ViewerRole string // "student" | "teacher" | "admin"
}

// UpdatePatch carries the fields a PUT may change. Nil means "leave as-is".
type UpdatePatch struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Sections          *[]Section `json:"sections,omitempty"`
	TotalDurationMins *int       `json:"total_duration_mins,omitempty"`
	IsPublished       *bool      `json:"is_published,omitempty"`
	ClassLevel        *string    `json:"class_level,omitempty"`
	Batch             *string    `json:"batch,omitempty"`
}

type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	UpdateExam(ctx context.Context, id string, patch UpdatePatch) (Exam, error)
	DeleteExam(ctx context.Context, id string) error
	ListExams(ctx context.Context, opts ListOpts) ([]ExamSummary, error)

	// Group assignment fan-out for publishing to a class/batch.
	AssignGroups(ctx context.Context, examID string, groups []string) error
	Groups(ctx context.Context, examID string) ([]string, error)
}
