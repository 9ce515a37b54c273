package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strategiz-io/authflow/session"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestProtectedMiddlewareAllowsAndAttachesUser(t *testing.T) {
	store := session.NewStore()
	store.Succeed(&session.User{ID: "u1", Name: "Alice"})

	var seen *session.User
	handler := ProtectedMiddleware(store, testRoutes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.ID != "u1" {
		t.Fatalf("expected user in context, got %+v", seen)
	}
}

func TestProtectedMiddlewareRedirectsUnauthenticated(t *testing.T) {
	store := session.NewStore()

	handler := ProtectedMiddleware(store, testRoutes)(okHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/signin?from=%2Fdashboard" {
		t.Fatalf("expected redirect with preserved target, got %q", loc)
	}
}

func TestProtectedMiddlewareHoldsWhilePending(t *testing.T) {
	store := session.NewStore()
	store.Begin()

	handler := ProtectedMiddleware(store, testRoutes)(okHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while pending, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestPublicMiddlewareBouncesAuthenticated(t *testing.T) {
	store := session.NewStore()
	store.Succeed(&session.User{ID: "u1"})

	handler := PublicMiddleware(store, testRoutes)(okHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signin", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %q", loc)
	}
}

func TestPublicMiddlewareAllowsUnauthenticated(t *testing.T) {
	store := session.NewStore()

	handler := PublicMiddleware(store, testRoutes)(okHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signin", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
