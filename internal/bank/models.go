package bank

// Question types accepted by the portal.
const (
	TypeSingleChoice    = "single-choice"
	TypeMultiChoice     = "multi-choice"
	TypeTrueFalse       = "true-false"
	TypeShort           = "short"
	TypeLong            = "long"
	TypeFillBlank       = "fill-blank"
	TypeAssertionReason = "assertion-reason"
	TypeInteger         = "integer"
	TypeSubjective      = "subjective"
)

var KnownTypes = map[string]bool{
	TypeSingleChoice:    true,
	TypeMultiChoice:     true,
	TypeTrueFalse:       true,
	TypeShort:           true,
	TypeLong:            true,
	TypeFillBlank:       true,
	TypeAssertionReason: true,
	TypeInteger:         true,
	TypeSubjective:      true,
}

type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// Question is a bank record; the builder treats it as read-only.
type Question struct {
	ID           string   `json:"id"`
	ClassLevel   string   `json:"class_level"`
	Subject      string   `json:"subject,omitempty"`
	Chapter      string   `json:"chapter,omitempty"`
	Topic        string   `json:"topic,omitempty"`
	SectionLabel string   `json:"section_label,omitempty"` // bank-side grouping, not the exam section
	Type         string   `json:"type"`
	Text         string   `json:"text"`
	Options      []Option `json:"options,omitempty"`
	Answer       string   `json:"answer,omitempty"`
	Solution     string   `json:"solution,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Marks        float64  `json:"marks,omitempty"`
	DiagramKey   string   `json:"diagram_key,omitempty"`
	CreatedAt    int64    `json:"created_at,omitempty"`
}

// FilterOptions enumerates the values the cascade can narrow by.
type FilterOptions struct {
	Subjects []string `json:"subjects"`
	Chapters []string `json:"chapters"`
	Topics   []string `json:"topics"`
	Sections []string `json:"sections"`
}
