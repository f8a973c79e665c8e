package exam

// Section is a named, ordered grouping of question references with its own
// timing and shuffle settings.
type Section struct {
	Title            string   `json:"title"`
	QuestionIDs      []string `json:"question_ids"`
	DurationMins     int      `json:"duration_mins"`
	ShuffleQuestions bool     `json:"shuffle_questions"`
	ShuffleOptions   bool     `json:"shuffle_options"`
}

// Exam is the draft the builder edits and the row the portal persists.
type Exam struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Sections          []Section `json:"sections"`
	TotalDurationMins int       `json:"total_duration_mins"`
	IsPublished       bool      `json:"is_published"`
	ClassLevel        string    `json:"class_level,omitempty"`
	Batch             string    `json:"batch,omitempty"`
	CreatedBy         string    `json:"created_by,omitempty"`
	CreatedAt         int64     `json:"created_at,omitempty"`
}

type ExamSummary struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	TotalDurationMins int    `json:"total_duration_mins"`
	IsPublished       bool   `json:"is_published"`
	ClassLevel        string `json:"class_level,omitempty"`
	Batch             string `json:"batch,omitempty"`
	SectionCount      int    `json:"section_count"`
	QuestionCount     int    `json:"question_count"`
	CreatedAt         int64  `json:"created_at,omitempty"`
}

// TotalDuration sums section durations. The stored total_duration_mins is
// always recomputed from this at save time.
func TotalDuration(sections []Section) int {
	sum := 0
	for _, s := range sections {
		sum += s.DurationMins
	}
	return sum
}

func summarize(e Exam) ExamSummary {
	qn := 0
	for _, s := range e.Sections {
		qn += len(s.QuestionIDs)
	}
	return ExamSummary{
		ID:                e.ID,
		Title:             e.Title,
		TotalDurationMins: e.TotalDurationMins,
		IsPublished:       e.IsPublished,
		ClassLevel:        e.ClassLevel,
		Batch:             e.Batch,
		SectionCount:      len(e.Sections),
		QuestionCount:     qn,
		CreatedAt:         e.CreatedAt,
	}
}
