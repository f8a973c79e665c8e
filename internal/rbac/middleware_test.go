package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func callWithRole(t *testing.T, mw func(http.Handler) http.Handler, role string) int {
	t.Helper()
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	if role != "" {
		req = req.WithContext(WithRole(req.Context(), role))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequire(t *testing.T) {
	mw := Require("exam:create")
	if got := callWithRole(t, mw, "teacher"); got != 200 {
		t.Fatalf("teacher: status = %d, want 200", got)
	}
	if got := callWithRole(t, mw, "student"); got != http.StatusForbidden {
		t.Fatalf("student: status = %d, want 403", got)
	}
	if got := callWithRole(t, mw, ""); got != http.StatusForbidden {
		t.Fatalf("no role: status = %d, want 403", got)
	}
}

func TestRequireAdminWildcard(t *testing.T) {
	if got := callWithRole(t, Require("users:dashboard"), "admin"); got != 200 {
		t.Fatalf("admin wildcard: status = %d, want 200", got)
	}
}

func TestRequireOwnerOr(t *testing.T) {
	owner := func(*http.Request) bool { return true }
	notOwner := func(*http.Request) bool { return false }

	// Owner passes regardless of the fallback permission.
	if got := callWithRole(t, RequireOwnerOr("exam:manage_any", owner), "teacher"); got != 200 {
		t.Fatalf("owner teacher: status = %d, want 200", got)
	}
	// Non-owner teacher lacks the fallback.
	if got := callWithRole(t, RequireOwnerOr("exam:manage_any", notOwner), "teacher"); got != http.StatusForbidden {
		t.Fatalf("non-owner teacher: status = %d, want 403", got)
	}
	// Admin's "*" grants the fallback on someone else's resource.
	if got := callWithRole(t, RequireOwnerOr("exam:manage_any", notOwner), "admin"); got != 200 {
		t.Fatalf("admin: status = %d, want 200", got)
	}
}
