package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidyasetu/exam-portal/internal/bank"
	"github.com/vidyasetu/exam-portal/internal/exam"
	"github.com/vidyasetu/exam-portal/internal/printview"
	"github.com/vidyasetu/exam-portal/internal/rbac"
)

type paperRow struct {
	ID        string `json:"id"`
	ExamID    string `json:"exam_id"`
	Title     string `json:"title"`
	HTML      string `json:"html,omitempty"`
	Status    string `json:"status"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// POST /api/papers  { "exam_id": "...", "title": "..." }
// Renders the exam into a print-ready snapshot and stores it as a draft paper.
func CreatePaperHandler(db *sql.DB, examStore exam.Store, bankStore bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID string `json:"exam_id"`
			Title  string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExamID == "" {
			http.Error(w, "exam_id required", http.StatusBadRequest)
			return
		}

		e, err := examStore.GetExam(r.Context(), req.ExamID)
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

		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = e.Title
		}
		now := time.Now().Unix()
		p := paperRow{
			ID:        "paper-" + uuid.NewString(),
			ExamID:    e.ID,
			Title:     title,
			HTML:      html,
			Status:    "draft",
			CreatedBy: rbac.SubjectFromContext(r.Context()),
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO papers (id, exam_id, title, html, status, created_by, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.ID, p.ExamID, p.Title, p.HTML, p.Status, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, p)
	}
}

// GET /api/papers?exam_id= — listing omits the HTML body.
func ListPapersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := r.URL.Query().Get("exam_id")
		q := `SELECT id, exam_id, title, status, created_by, created_at, updated_at FROM papers`
		args := []any{}
		if examID != "" {
			q += ` WHERE exam_id=$1`
			args = append(args, examID)
		}
		q += ` ORDER BY created_at DESC`
		rows, err := db.QueryContext(r.Context(), q, args...)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		defer rows.Close()
		out := []paperRow{}
		for rows.Next() {
			var p paperRow
			if err := rows.Scan(&p.ID, &p.ExamID, &p.Title, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			out = append(out, p)
		}
		writeJSON(w, out)
	}
}

func GetPaperHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := fetchPaper(r, db, chi.URLParam(r, "paperID"))
		if err != nil {
			http.Error(w, err.Error(), paperStatus(err))
			return
		}
		writeJSON(w, p)
	}
}

// PUT /api/papers/{paperID} — edit the stored HTML or move it through
// draft -> final.
func UpdatePaperHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title  *string `json:"title"`
			HTML   *string `json:"html"`
			Status *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Status != nil && *req.Status != "draft" && *req.Status != "final" {
			http.Error(w, "status must be draft or final", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "paperID")
		p, err := fetchPaper(r, db, id)
		if err != nil {
			http.Error(w, err.Error(), paperStatus(err))
			return
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
			p.Title = strings.TrimSpace(*req.Title)
		}
		if req.HTML != nil {
			p.HTML = *req.HTML
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
		p.UpdatedAt = time.Now().Unix()

		_, err = db.ExecContext(r.Context(),
			`UPDATE papers SET title=$1, html=$2, status=$3, updated_at=$4 WHERE id=$5`,
			p.Title, p.HTML, p.Status, p.UpdatedAt, id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, p)
	}
}

func DeletePaperHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := db.ExecContext(r.Context(), `DELETE FROM papers WHERE id=$1`, chi.URLParam(r, "paperID"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "paper not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/papers/{paperID}/export — the stored HTML, ready to print.
func ExportPaperHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := fetchPaper(r, db, chi.URLParam(r, "paperID"))
		if err != nil {
			http.Error(w, err.Error(), paperStatus(err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(p.HTML))
	}
}

func fetchPaper(r *http.Request, db *sql.DB, id string) (paperRow, error) {
	var p paperRow
	err := db.QueryRowContext(r.Context(),
		`SELECT id, exam_id, title, html, status, created_by, created_at, updated_at FROM papers WHERE id=$1`, id).
		Scan(&p.ID, &p.ExamID, &p.Title, &p.HTML, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func paperStatus(err error) int {
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
