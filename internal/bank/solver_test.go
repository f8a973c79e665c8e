package bank

import (
	"testing"
)

func TestSolutionForPrefersStoredAnswer(t *testing.T) {
	sol, err := solutionFor(Question{ID: "q1", Answer: "42", Solution: "add them up"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Answer != "42" || sol.Steps != "add them up" {
		t.Fatalf("unexpected solution: %+v", sol)
	}
}

func TestSolutionForDerivesFromOptions(t *testing.T) {
	sol, err := solutionFor(Question{
		ID:   "q2",
		Type: TypeMultiChoice,
		Options: []Option{
			{Text: "mercury"},
			{Text: "water", Correct: true},
			{Text: "ethanol", Correct: true},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Answer != "(b) water, (c) ethanol" {
		t.Fatalf("answer = %q", sol.Answer)
	}
}

func TestSolutionForEmptyQuestionFails(t *testing.T) {
	if _, err := solutionFor(Question{ID: "q3", Type: TypeSubjective}); err == nil {
		t.Fatalf("expected an error for a question with no key")
	}
}
