package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidyasetu/exam-portal/internal/bank"
)

// GET /api/ai/questions/class/{classLevel}?subject=&chapter=&topic=&type=&difficulty=&q=
func ListQuestionsHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		list, err := store.ListQuestions(r.Context(), bank.ListOpts{
			ClassLevel: chi.URLParam(r, "classLevel"),
			Subject:    strings.TrimSpace(qv.Get("subject")),
			Chapter:    strings.TrimSpace(qv.Get("chapter")),
			Topic:      strings.TrimSpace(qv.Get("topic")),
			Type:       strings.TrimSpace(qv.Get("type")),
			Difficulty: strings.TrimSpace(qv.Get("difficulty")),
			Q:          strings.TrimSpace(qv.Get("q")),
			Limit:      parseIntDefault(qv.Get("limit"), 100),
			Offset:     parseIntDefault(qv.Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// GET /api/ai/questions/class/{classLevel}/filters?subject=
func FilterOptionsHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fo, err := store.FilterOptions(r.Context(),
			chi.URLParam(r, "classLevel"),
			strings.TrimSpace(r.URL.Query().Get("subject")))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, fo)
	}
}

func GetQuestionHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, q)
	}
}

// PUT /api/ai/questions/class/{classLevel}/{questionID} — upsert.
func PutQuestionHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q bank.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ClassLevel = chi.URLParam(r, "classLevel")
		if id := chi.URLParam(r, "questionID"); id != "" {
			q.ID = id
		}
		if q.ID == "" {
			q.ID = "q-" + uuid.NewString()
		}
		if strings.TrimSpace(q.Text) == "" {
			http.Error(w, "text required", http.StatusBadRequest)
			return
		}
		if q.CreatedAt == 0 {
			q.CreatedAt = time.Now().Unix()
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, q)
	}
}

func DeleteQuestionHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID")); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/ai/questions/class/{classLevel}/bulk-update  { "updates": [...] }
func BulkUpdateHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Updates []bank.QuestionPatch `json:"updates"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		n, err := store.BulkUpdate(r.Context(), req.Updates)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, map[string]int{"updated": n})
	}
}

// POST /api/ai/questions/class/{classLevel}/solve  { "id": "..." }
func SolveHandler(solver bank.Solver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}
		sol, err := solver.Solve(r.Context(), req.ID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, sol)
	}
}

// POST /api/ai/questions/class/{classLevel}/solve-batch  { "ids": [...] }
func SolveBatchHandler(solver bank.Solver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
			http.Error(w, "ids required", http.StatusBadRequest)
			return
		}
		sols, err := solver.SolveBatch(r.Context(), req.IDs)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, sols)
	}
}
