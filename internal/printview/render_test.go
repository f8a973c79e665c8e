package printview

import (
	"strings"
	"testing"

	"github.com/vidyasetu/exam-portal/internal/bank"
	"github.com/vidyasetu/exam-portal/internal/exam"
)

func testQuestions() map[string]bank.Question {
	qs := map[string]bank.Question{}
	for _, id := range []string{"q1", "q2", "q3", "q4", "q5"} {
		qs[id] = bank.Question{ID: id, Type: bank.TypeShort, Text: "Question body " + id}
	}
	return qs
}

func TestRenderRunningNumberAcrossSections(t *testing.T) {
	e := exam.Exam{
		Title: "Half Yearly",
		Sections: []exam.Section{
			{Title: "Section A", QuestionIDs: []string{"q1", "q2", "q3"}, DurationMins: 30},
			{Title: "Section B", QuestionIDs: []string{"q4", "q5"}, DurationMins: 45},
		},
	}
	html, err := Render(e, testQuestions(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"1. Question body q1",
		"3. Question body q3",
		"4. Question body q4",
		"5. Question body q5",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in rendered output", want)
		}
	}
	if strings.Contains(html, ">1. Question body q4") {
		t.Errorf("numbering restarted per section")
	}
}

func TestRenderMaxMarksHeuristic(t *testing.T) {
	e := exam.Exam{
		Title: "Quiz",
		Sections: []exam.Section{
			{Title: "Section A", QuestionIDs: []string{"q1", "q2", "q3", "q4", "q5"}, DurationMins: 60},
		},
	}
	html, err := Render(e, testQuestions(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "Max Marks: 20") {
		t.Fatalf("expected Max Marks: 20 for 5 questions")
	}
	if !strings.Contains(html, "Time: 60 mins") {
		t.Fatalf("expected total time from section durations")
	}
}

func TestRenderSkipsEmptySections(t *testing.T) {
	e := exam.Exam{
		Title: "Quiz",
		Sections: []exam.Section{
			{Title: "Section A", QuestionIDs: []string{}, DurationMins: 30},
			{Title: "Section B", QuestionIDs: []string{"q1"}, DurationMins: 30},
		},
	}
	html, err := Render(e, testQuestions(), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "Section A") {
		t.Fatalf("empty section should be skipped")
	}
	if !strings.Contains(html, "Section B") {
		t.Fatalf("non-empty section missing")
	}
}

func TestRenderLettersOptionsAndDiagram(t *testing.T) {
	qs := map[string]bank.Question{
		"q1": {
			ID:   "q1",
			Type: bank.TypeSingleChoice,
			Text: "Pick one",
			Options: []bank.Option{
				{Text: "first"}, {Text: "second", Correct: true}, {Text: "third"},
			},
			DiagramKey: "uploads/images/circuit.png",
		},
	}
	e := exam.Exam{
		Title:    "Quiz",
		Sections: []exam.Section{{Title: "Section A", QuestionIDs: []string{"q1"}, DurationMins: 30}},
	}
	html, err := Render(e, qs, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"(a) first", "(b) second", "(c) third", `src="/assets/uploads/images/circuit.png"`} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(html, "Correct") {
		t.Errorf("answer key must not leak into the print view")
	}
}

func TestRenderEscapesQuestionText(t *testing.T) {
	qs := map[string]bank.Question{
		"q1": {ID: "q1", Type: bank.TypeShort, Text: "<script>alert(1)</script>"},
	}
	e := exam.Exam{
		Title:    "Quiz",
		Sections: []exam.Section{{Title: "Section A", QuestionIDs: []string{"q1"}, DurationMins: 30}},
	}
	html, err := Render(e, qs, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatalf("question text must be escaped")
	}
}
