package draft

import (
	"reflect"
	"testing"

	"github.com/vidyasetu/exam-portal/internal/exam"
)

func newDraft() *Builder {
	b := New(exam.Exam{ID: "e1", Title: "Unit Test 1"})
	b.AddSection() // Section A
	return b
}

func sectionTitles(b *Builder) []string {
	e := b.Exam()
	out := make([]string, len(e.Sections))
	for i, s := range e.Sections {
		out[i] = s.Title
	}
	return out
}

func TestAddSectionTitles(t *testing.T) {
	b := newDraft()
	b.AddSection()
	b.AddSection()
	want := []string{"Section A", "Section B", "Section C"}
	if got := sectionTitles(b); !reflect.DeepEqual(got, want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
}

func TestSectionLetterWraps(t *testing.T) {
	cases := map[int]string{0: "A", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA"}
	for n, want := range cases {
		if got := sectionLetter(n); got != want {
			t.Errorf("sectionLetter(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRemoveLastSectionIsNoop(t *testing.T) {
	b := newDraft()
	if b.RemoveSection(0) {
		t.Fatalf("expected removing the only section to be a no-op")
	}
	if len(b.Exam().Sections) != 1 {
		t.Fatalf("section count = %d, want 1", len(b.Exam().Sections))
	}

	b.AddSection()
	if !b.RemoveSection(1) {
		t.Fatalf("expected removal to succeed with two sections")
	}
	if b.RemoveSection(0) {
		t.Fatalf("expected removal to fail again at one section")
	}
}

func TestRemoveSectionOutOfRange(t *testing.T) {
	b := newDraft()
	b.AddSection()
	if b.RemoveSection(-1) || b.RemoveSection(5) {
		t.Fatalf("out-of-range removal must be a no-op")
	}
}

func TestAddQuestionIdempotent(t *testing.T) {
	b := newDraft()
	if !b.AddQuestion(0, "q1") {
		t.Fatalf("first add should succeed")
	}
	if b.AddQuestion(0, "q1") {
		t.Fatalf("second add should be a no-op")
	}
	if got := b.Exam().Sections[0].QuestionIDs; !reflect.DeepEqual(got, []string{"q1"}) {
		t.Fatalf("question ids = %v, want [q1]", got)
	}
}

func TestCrossSectionExclusivity(t *testing.T) {
	b := newDraft()
	b.AddSection()
	b.AddQuestion(0, "q1")
	if b.AddQuestion(1, "q1") {
		t.Fatalf("question placed in section 0 must not be addable to section 1")
	}
	if si, ok := b.Placed("q1"); !ok || si != 0 {
		t.Fatalf("Placed(q1) = %d,%v, want 0,true", si, ok)
	}

	// After removal it can move.
	b.RemoveQuestion(0, "q1")
	if !b.AddQuestion(1, "q1") {
		t.Fatalf("question should be addable after removal")
	}
}

func TestToggleQuestion(t *testing.T) {
	b := newDraft()
	b.AddQuestion(0, "q1")
	b.ToggleQuestion(0, "q1")
	if got := b.Exam().Sections[0].QuestionIDs; len(got) != 0 {
		t.Fatalf("after toggle-off, question ids = %v, want empty", got)
	}
	b.ToggleQuestion(0, "q1")
	if got := b.Exam().Sections[0].QuestionIDs; !reflect.DeepEqual(got, []string{"q1"}) {
		t.Fatalf("after toggle-on, question ids = %v, want [q1]", got)
	}
}

func TestRemoveQuestionAbsentIsNoop(t *testing.T) {
	b := newDraft()
	if b.RemoveQuestion(0, "ghost") {
		t.Fatalf("removing an absent question must be a no-op")
	}
}

func TestRemoveSectionFreesPlacements(t *testing.T) {
	b := newDraft()
	b.AddSection()
	b.AddSection()
	b.AddQuestion(1, "q1")
	b.AddQuestion(2, "q2")

	if !b.RemoveSection(1) {
		t.Fatalf("removal failed")
	}
	// q1 is free again, q2's placement shifted down to index 1.
	if !b.AddQuestion(0, "q1") {
		t.Fatalf("q1 should be free after its section was removed")
	}
	if si, ok := b.Placed("q2"); !ok || si != 1 {
		t.Fatalf("Placed(q2) = %d,%v, want 1,true", si, ok)
	}
}

func TestUpdateSectionPatch(t *testing.T) {
	b := newDraft()
	title := "Physics"
	dur := 45
	on := true
	b.UpdateSection(0, SectionPatch{Title: &title, DurationMins: &dur, ShuffleQuestions: &on})

	s := b.Exam().Sections[0]
	if s.Title != "Physics" || s.DurationMins != 45 || !s.ShuffleQuestions || s.ShuffleOptions {
		t.Fatalf("unexpected section after patch: %+v", s)
	}

	bad := 0
	b.UpdateSection(0, SectionPatch{DurationMins: &bad})
	if b.Exam().Sections[0].DurationMins != 45 {
		t.Fatalf("non-positive duration must be ignored")
	}
}

func TestTotalDuration(t *testing.T) {
	b := newDraft()
	b.AddSection()
	b.AddSection()
	for i, d := range []int{30, 45, 20} {
		d := d
		b.UpdateSection(i, SectionPatch{DurationMins: &d})
	}
	if got := b.TotalDurationMins(); got != 95 {
		t.Fatalf("total duration = %d, want 95", got)
	}
	if got := b.Exam().TotalDurationMins; got != 95 {
		t.Fatalf("exam total duration = %d, want 95", got)
	}
}

func TestNewDropsCrossSectionDuplicates(t *testing.T) {
	b := New(exam.Exam{Sections: []exam.Section{
		{Title: "Section A", QuestionIDs: []string{"q1", "q2"}, DurationMins: 30},
		{Title: "Section B", QuestionIDs: []string{"q2", "q3"}, DurationMins: 30},
	}})
	got := b.Exam().Sections[1].QuestionIDs
	if !reflect.DeepEqual(got, []string{"q3"}) {
		t.Fatalf("section B ids = %v, want [q3]", got)
	}
	if si, _ := b.Placed("q2"); si != 0 {
		t.Fatalf("q2 should keep its first placement")
	}
}

func TestSelectionIndex(t *testing.T) {
	b := newDraft()
	b.AddSection()
	b.AddQuestion(0, "q1")
	b.AddQuestion(1, "q2")
	idx := b.SelectionIndex()
	if len(idx) != 2 || !idx["q1"] || !idx["q2"] {
		t.Fatalf("selection index = %v", idx)
	}
}

func TestNewLeavesCallerExamUntouched(t *testing.T) {
	orig := exam.Exam{Sections: []exam.Section{
		{Title: "Section A", QuestionIDs: []string{"q1", "q2"}, DurationMins: 30},
		{Title: "Section B", QuestionIDs: []string{"q2", "q3"}, DurationMins: 30},
	}}
	b := New(orig)
	b.AddQuestion(0, "q9")
	b.RemoveSection(1)

	if !reflect.DeepEqual(orig.Sections[0].QuestionIDs, []string{"q1", "q2"}) {
		t.Fatalf("caller section A mutated: %v", orig.Sections[0].QuestionIDs)
	}
	if !reflect.DeepEqual(orig.Sections[1].QuestionIDs, []string{"q2", "q3"}) {
		t.Fatalf("caller section B mutated: %v", orig.Sections[1].QuestionIDs)
	}
	if len(orig.Sections) != 2 {
		t.Fatalf("caller section count = %d, want 2", len(orig.Sections))
	}
}
