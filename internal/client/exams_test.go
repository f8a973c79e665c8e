package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/vidyasetu/exam-portal/internal/exam"
)

// recorder captures requests so tests can assert on payloads.
type recorder struct {
	mu       sync.Mutex
	requests []recordedReq
	// respond overrides the default 200 {} response, keyed by method+path.
	respond map[string]func(w http.ResponseWriter)
}

type recordedReq struct {
	Method string
	Path   string
	Body   map[string]any
}

func (rec *recorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedReq{Method: r.Method, Path: r.URL.Path, Body: body})
		fn := rec.respond[r.Method+" "+r.URL.Path]
		rec.mu.Unlock()
		if fn != nil {
			fn(w)
			return
		}
		_, _ = w.Write([]byte("{}"))
	}
}

func (rec *recorder) count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.requests)
}

func (rec *recorder) at(i int) recordedReq {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.requests[i]
}

func newTestClient(t *testing.T, rec *recorder) *Client {
	t.Helper()
	srv := httptest.NewServer(rec.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestSaveDraftSendsTotalDuration(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	sections := []exam.Section{
		{Title: "Section A", QuestionIDs: []string{"q1"}, DurationMins: 30},
		{Title: "Section B", QuestionIDs: []string{}, DurationMins: 45},
		{Title: "Section C", QuestionIDs: []string{}, DurationMins: 20},
	}
	if _, err := c.SaveDraft(context.Background(), "e1", sections); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	req := rec.at(0)
	if req.Method != "PUT" || req.Path != "/api/exams/e1" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if got := req.Body["total_duration_mins"].(float64); got != 95 {
		t.Fatalf("total_duration_mins = %v, want 95", got)
	}
}

func TestAssignToClassBatchAllBatches(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	groups, err := c.AssignToClassBatch(context.Background(), "e1", nil, "10", exam.AllBatches)
	if err != nil {
		t.Fatalf("AssignToClassBatch: %v", err)
	}
	want := []string{"10", "Lakshya", "Aadharshilla", "Basic", "Commerce"}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}

	if rec.count() != 2 {
		t.Fatalf("request count = %d, want 2", rec.count())
	}
	first := rec.at(0)
	if first.Path != "/api/exams/e1" || first.Body["is_published"] != true {
		t.Fatalf("first request should publish: %+v", first)
	}
	second := rec.at(1)
	if second.Path != "/api/exams/e1/assign" {
		t.Fatalf("second request path = %s", second.Path)
	}
	var sent []string
	for _, g := range second.Body["groups"].([]any) {
		sent = append(sent, g.(string))
	}
	if !reflect.DeepEqual(sent, want) {
		t.Fatalf("assign payload groups = %v, want %v", sent, want)
	}
}

func TestAssignToClassBatchSingleBatch(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	groups, err := c.AssignToClassBatch(context.Background(), "e1", nil, "10", "Lakshya")
	if err != nil {
		t.Fatalf("AssignToClassBatch: %v", err)
	}
	if want := []string{"10", "Lakshya"}; !reflect.DeepEqual(groups, want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
}

func TestAssignValidationAbortsBeforeAnyRequest(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec)

	_, err := c.AssignToClassBatch(context.Background(), "e1", nil, "", "Lakshya")
	if !errors.Is(err, exam.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if rec.count() != 0 {
		t.Fatalf("validation failure must not issue requests, saw %d", rec.count())
	}
}

func TestAssignFanoutFailureLeavesPublished(t *testing.T) {
	rec := &recorder{respond: map[string]func(http.ResponseWriter){
		"POST /api/exams/e1/assign": func(w http.ResponseWriter) {
			http.Error(w, "assignment failed", http.StatusBadGateway)
		},
	}}
	c := newTestClient(t, rec)

	_, err := c.AssignToClassBatch(context.Background(), "e1", nil, "10", "Basic")
	if err == nil {
		t.Fatalf("expected fan-out error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("err = %v, want wrapped APIError 502", err)
	}
	// Both requests were issued; the publish step is not rolled back.
	if rec.count() != 2 {
		t.Fatalf("request count = %d, want 2", rec.count())
	}
}

func TestTogglePublishReconcilesFromServer(t *testing.T) {
	rec := &recorder{respond: map[string]func(http.ResponseWriter){
		"PUT /api/exams/e1": func(w http.ResponseWriter) {
			// Server disagrees with the local toggle.
			_, _ = w.Write([]byte(`{"id":"e1","is_published":false}`))
		},
	}}
	c := newTestClient(t, rec)

	got, err := c.TogglePublish(context.Background(), "e1", false)
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if got != false {
		t.Fatalf("reconciled value = %v, want server's false", got)
	}
}

func TestTogglePublishFallsBackToLocalToggle(t *testing.T) {
	rec := &recorder{} // default response omits is_published
	c := newTestClient(t, rec)

	got, err := c.TogglePublish(context.Background(), "e1", false)
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if got != true {
		t.Fatalf("fallback value = %v, want local toggle true", got)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path == "/api/auth/login" {
			_, _ = w.Write([]byte(`{"access_token":"tok-1","role":"teacher","user_id":"u1"}`))
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Login(context.Background(), "t", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.GetExam(context.Background(), "e1"); err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want Bearer tok-1", gotAuth)
	}

	c.Logout()
	if _, err := c.GetExam(context.Background(), "e1"); err != nil {
		t.Fatalf("GetExam after logout: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization after logout = %q, want empty", gotAuth)
	}
}
