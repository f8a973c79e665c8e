package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidyasetu/exam-portal/internal/bank"
	"github.com/vidyasetu/exam-portal/internal/draft"
	"github.com/vidyasetu/exam-portal/internal/exam"
	"github.com/vidyasetu/exam-portal/internal/printview"
	"github.com/vidyasetu/exam-portal/internal/rbac"
)

// POST /api/exams  { "title": "...", "description": "..." }
// Creates a draft with one starter section.
func CreateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		b := draft.New(exam.Exam{
			ID:          "exam-" + uuid.NewString(),
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
			CreatedBy:   rbac.SubjectFromContext(r.Context()),
		})
		b.AddSection()
		e := b.Exam()
		if err := store.PutExam(r.Context(), e); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, e)
	}
}

func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, e)
	}
}

func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListExams(r.Context(), exam.ListOpts{
			Q:          strings.TrimSpace(r.URL.Query().Get("q")),
			ClassLevel: strings.TrimSpace(r.URL.Query().Get("class_level")),
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
			ViewerID:   rbac.SubjectFromContext(r.Context()),
			ViewerRole: rbac.RoleFromContext(r.Context()),
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, list)
	}
}

// PUT /api/exams/{examID} — partial update: absent fields stay untouched.
// This is the draft-save path: when sections arrive without a total, the
// total is recomputed server-side.
func UpdateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch exam.UpdatePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			http.Error(w, "title cannot be empty", http.StatusBadRequest)
			return
		}
		e, err := store.UpdateExam(r.Context(), chi.URLParam(r, "examID"), patch)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, e)
	}
}

func DeleteExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteExam(r.Context(), chi.URLParam(r, "examID")); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/exams/{examID}/assign
// Accepts either an explicit group list or a class/batch pair to expand.
func AssignExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		var req struct {
			Groups     []string `json:"groups"`
			ClassLevel string   `json:"class_level"`
			Batch      string   `json:"batch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		if len(req.Groups) > 0 {
			if err := svc.Store().AssignGroups(r.Context(), examID, req.Groups); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			writeJSON(w, map[string]any{"exam_id": examID, "groups": req.Groups})
			return
		}

		e, groups, err := svc.AssignToClassBatch(r.Context(), examID, req.ClassLevel, req.Batch)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, map[string]any{"exam_id": e.ID, "groups": groups})
	}
}

// POST /api/exams/{examID}/toggle-publish
func TogglePublishHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.TogglePublish(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, e)
	}
}

// GET /api/exams/{examID}/export — print-ready HTML for the current draft.
func ExportExamHandler(store exam.Store, bankStore bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		resolved, err := resolveQuestions(r, bankStore, e)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		html, err := printview.Render(e, resolved, nil)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}
}

func resolveQuestions(r *http.Request, bankStore bank.Store, e exam.Exam) (map[string]bank.Question, error) {
	resolved := map[string]bank.Question{}
	for _, s := range e.Sections {
		for _, qid := range s.QuestionIDs {
			q, err := bankStore.GetQuestion(r.Context(), qid)
			if errors.Is(err, bank.ErrNotFound) {
				continue // renderer leaves unresolved bodies out
			}
			if err != nil {
				return nil, err
			}
			resolved[qid] = q
		}
	}
	return resolved, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, exam.ErrNotFound), errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, exam.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
