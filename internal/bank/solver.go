package bank

import (
	"context"
	"fmt"
	"strings"
)

// Solution is a worked answer for a bank question.
type Solution struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Steps      string `json:"steps,omitempty"`
}

// Solver produces solutions for bank questions. The default implementation
// derives them from the stored answer key; swap in a remote one if the
// portal grows an assist backend.
type Solver interface {
	Solve(ctx context.Context, id string) (Solution, error)
	SolveBatch(ctx context.Context, ids []string) ([]Solution, error)
}

type keySolver struct {
	store Store
}

func NewKeySolver(store Store) Solver { return &keySolver{store: store} }

func (s *keySolver) Solve(ctx context.Context, id string) (Solution, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return Solution{}, err
	}
	return solutionFor(q)
}

func (s *keySolver) SolveBatch(ctx context.Context, ids []string) ([]Solution, error) {
	out := make([]Solution, 0, len(ids))
	for _, id := range ids {
		sol, err := s.Solve(ctx, id)
		if err != nil {
			// Batch keeps going; a missing question yields an empty slot.
			sol = Solution{QuestionID: id}
		}
		out = append(out, sol)
	}
	return out, nil
}

func solutionFor(q Question) (Solution, error) {
	sol := Solution{QuestionID: q.ID, Answer: q.Answer, Steps: q.Solution}
	if sol.Answer == "" {
		// Derive the answer from the option correctness flags.
		correct := []string{}
		for i, o := range q.Options {
			if o.Correct {
				correct = append(correct, fmt.Sprintf("(%s) %s", optionLetter(i), o.Text))
			}
		}
		sol.Answer = strings.Join(correct, ", ")
	}
	if sol.Answer == "" && sol.Steps == "" {
		return sol, fmt.Errorf("question %s has no stored answer or solution", q.ID)
	}
	return sol, nil
}

// optionLetter maps 0->a, 1->b, ...
func optionLetter(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return string(rune('a'+i/26-1)) + string(rune('a'+i%26))
}
