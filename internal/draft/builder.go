// Package draft holds the in-memory exam builder: section mutations, the
// selection index, and auto titling. The selection index is authoritative:
// a question id lives in at most one section, enforced here rather than by
// the calling UI.
package draft

import (
	"github.com/vidyasetu/exam-portal/internal/exam"
)

const DefaultSectionDurationMins = 30

// SectionPatch shallow-merges into a section; nil fields are left alone.
type SectionPatch struct {
	Title            *string
	DurationMins     *int
	ShuffleQuestions *bool
	ShuffleOptions   *bool
}

// Builder edits one exam draft. Not safe for concurrent use.
type Builder struct {
	exam   exam.Exam
	placed map[string]int // question id -> section index
}

// New copies an existing draft into the builder. Question ids that appear in
// more than one section keep their first placement; later duplicates are
// dropped. The caller's exam is left untouched.
func New(e exam.Exam) *Builder {
	e.Sections = append([]exam.Section(nil), e.Sections...)
	b := &Builder{exam: e, placed: map[string]int{}}
	for i := range b.exam.Sections {
		kept := make([]string, 0, len(b.exam.Sections[i].QuestionIDs))
		for _, qid := range b.exam.Sections[i].QuestionIDs {
			if _, dup := b.placed[qid]; dup {
				continue
			}
			b.placed[qid] = i
			kept = append(kept, qid)
		}
		b.exam.Sections[i].QuestionIDs = kept
	}
	return b
}

// Exam returns a copy of the draft with total_duration_mins recomputed.
func (b *Builder) Exam() exam.Exam {
	e := b.exam
	e.Sections = make([]exam.Section, len(b.exam.Sections))
	for i, s := range b.exam.Sections {
		s.QuestionIDs = append([]string(nil), s.QuestionIDs...)
		e.Sections[i] = s
	}
	e.TotalDurationMins = exam.TotalDuration(e.Sections)
	return e
}

// AddSection appends a section titled "Section A/B/..." with the default
// duration and no questions.
func (b *Builder) AddSection() exam.Section {
	s := exam.Section{
		Title:        "Section " + sectionLetter(len(b.exam.Sections)),
		QuestionIDs:  []string{},
		DurationMins: DefaultSectionDurationMins,
	}
	b.exam.Sections = append(b.exam.Sections, s)
	return s
}

// RemoveSection deletes the section at i. No-op when i is out of range or
// when it would leave the draft with no sections.
func (b *Builder) RemoveSection(i int) bool {
	if i < 0 || i >= len(b.exam.Sections) || len(b.exam.Sections) <= 1 {
		return false
	}
	for _, qid := range b.exam.Sections[i].QuestionIDs {
		delete(b.placed, qid)
	}
	b.exam.Sections = append(b.exam.Sections[:i], b.exam.Sections[i+1:]...)
	// reindex placements behind the removed section
	for qid, si := range b.placed {
		if si > i {
			b.placed[qid] = si - 1
		}
	}
	return true
}

// UpdateSection shallow-merges patch into the section at i. Out-of-range is
// a no-op; non-positive durations are ignored.
func (b *Builder) UpdateSection(i int, patch SectionPatch) bool {
	if i < 0 || i >= len(b.exam.Sections) {
		return false
	}
	s := &b.exam.Sections[i]
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.DurationMins != nil && *patch.DurationMins > 0 {
		s.DurationMins = *patch.DurationMins
	}
	if patch.ShuffleQuestions != nil {
		s.ShuffleQuestions = *patch.ShuffleQuestions
	}
	if patch.ShuffleOptions != nil {
		s.ShuffleOptions = *patch.ShuffleOptions
	}
	return true
}

// AddQuestion appends qid to section i. No-op when qid is already placed in
// any section (this one or another) or i is out of range.
func (b *Builder) AddQuestion(i int, qid string) bool {
	if i < 0 || i >= len(b.exam.Sections) || qid == "" {
		return false
	}
	if _, ok := b.placed[qid]; ok {
		return false
	}
	b.exam.Sections[i].QuestionIDs = append(b.exam.Sections[i].QuestionIDs, qid)
	b.placed[qid] = i
	return true
}

// RemoveQuestion removes qid from section i by value; no-op if absent there.
func (b *Builder) RemoveQuestion(i int, qid string) bool {
	if i < 0 || i >= len(b.exam.Sections) {
		return false
	}
	if si, ok := b.placed[qid]; !ok || si != i {
		return false
	}
	ids := b.exam.Sections[i].QuestionIDs
	for j, id := range ids {
		if id == qid {
			b.exam.Sections[i].QuestionIDs = append(ids[:j], ids[j+1:]...)
			break
		}
	}
	delete(b.placed, qid)
	return true
}

// ToggleQuestion removes qid from section i when present there, otherwise
// tries to add it.
func (b *Builder) ToggleQuestion(i int, qid string) {
	if si, ok := b.placed[qid]; ok && si == i {
		b.RemoveQuestion(i, qid)
		return
	}
	b.AddQuestion(i, qid)
}

// Placed reports which section holds qid, if any.
func (b *Builder) Placed(qid string) (int, bool) {
	si, ok := b.placed[qid]
	return si, ok
}

// SelectionIndex returns the set of all placed question ids.
func (b *Builder) SelectionIndex() map[string]bool {
	out := make(map[string]bool, len(b.placed))
	for qid := range b.placed {
		out[qid] = true
	}
	return out
}

// TotalDurationMins sums the section durations.
func (b *Builder) TotalDurationMins() int {
	return exam.TotalDuration(b.exam.Sections)
}

// sectionLetter maps 0->A, 25->Z, 26->AA, spreadsheet style.
func sectionLetter(n int) string {
	s := ""
	for {
		s = string(rune('A'+n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}
