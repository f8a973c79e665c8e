package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vidyasetu/exam-portal/internal/draft"
	"github.com/vidyasetu/exam-portal/internal/exam"
	"github.com/vidyasetu/exam-portal/internal/rbac"
)

func TestCreateExamStarterSection(t *testing.T) {
	store := exam.NewInMemoryStore()
	h := CreateExamHandler(store)

	req := httptest.NewRequest("POST", "/api/exams", strings.NewReader(`{"title":"Midterm"}`))
	req = req.WithContext(rbac.WithSubject(req.Context(), "t1"))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var e exam.Exam
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(e.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(e.Sections))
	}
	s := e.Sections[0]
	if s.Title != "Section A" || s.DurationMins != draft.DefaultSectionDurationMins {
		t.Fatalf("starter section = %+v", s)
	}
	if e.TotalDurationMins != draft.DefaultSectionDurationMins {
		t.Fatalf("total duration = %d", e.TotalDurationMins)
	}
	if e.CreatedBy != "t1" {
		t.Fatalf("created_by = %q", e.CreatedBy)
	}
}

func TestCreateExamRequiresTitle(t *testing.T) {
	h := CreateExamHandler(exam.NewInMemoryStore())
	req := httptest.NewRequest("POST", "/api/exams", strings.NewReader(`{"title":"  "}`))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
