package guard

import (
	"testing"

	"github.com/strategiz-io/authflow/session"
)

var testRoutes = Routes{
	SignIn:    "/signin",
	Dashboard: "/dashboard",
}

func authenticated() session.Snapshot {
	return session.Snapshot{
		User:            &session.User{ID: "u1"},
		IsAuthenticated: true,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want State
	}{
		{"resting", session.Snapshot{}, Unauthenticated},
		{"loading", session.Snapshot{IsLoading: true}, Pending},
		{"authenticated", authenticated(), Authenticated},
		{"failed", session.Snapshot{Error: "bad code"}, Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.snap); got != tt.want {
				t.Fatalf("Classify(%+v) = %v, want %v", tt.snap, got, tt.want)
			}
		})
	}
}

func TestClassifyLoadingWinsOverAuthenticated(t *testing.T) {
	snap := authenticated()
	snap.IsLoading = true

	if got := Classify(snap); got != Pending {
		t.Fatalf("expected Pending while a flow is in flight, got %v", got)
	}
}

func TestProtectedAllowsAuthenticated(t *testing.T) {
	d := Protected(authenticated(), testRoutes, "/dashboard")
	if d.Action != Allow {
		t.Fatalf("expected Allow, got %v", d.Action)
	}
}

func TestProtectedRedirectsWithReturnTarget(t *testing.T) {
	d := Protected(session.Snapshot{}, testRoutes, "/settings/profile")
	if d.Action != Redirect {
		t.Fatalf("expected Redirect, got %v", d.Action)
	}
	if d.Target != "/signin?from=%2Fsettings%2Fprofile" {
		t.Fatalf("expected preserved target, got %q", d.Target)
	}
}

func TestProtectedRedirectWithoutRequestedRoute(t *testing.T) {
	d := Protected(session.Snapshot{}, testRoutes, "")
	if d.Target != "/signin" {
		t.Fatalf("expected bare sign-in target, got %q", d.Target)
	}
}

func TestProtectedWaitsWhilePending(t *testing.T) {
	d := Protected(session.Snapshot{IsLoading: true}, testRoutes, "/dashboard")
	if d.Action != Wait {
		t.Fatalf("expected Wait, got %v", d.Action)
	}
}

func TestPublicAllowsUnauthenticated(t *testing.T) {
	d := Public(session.Snapshot{}, testRoutes)
	if d.Action != Allow {
		t.Fatalf("expected Allow, got %v", d.Action)
	}
}

func TestPublicRedirectsAuthenticated(t *testing.T) {
	d := Public(authenticated(), testRoutes)
	if d.Action != Redirect || d.Target != "/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %+v", d)
	}
}

func TestPublicWaitsWhilePending(t *testing.T) {
	d := Public(session.Snapshot{IsLoading: true}, testRoutes)
	if d.Action != Wait {
		t.Fatalf("expected Wait, got %v", d.Action)
	}
}

func TestReturnTarget(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     string
	}{
		{"present", "from=%2Fsettings%2Fprofile", "/settings/profile"},
		{"missing", "", "/dashboard"},
		{"not local", "from=https%3A%2F%2Fevil.example", "/dashboard"},
		{"protocol relative", "from=%2F%2Fevil.example", "/dashboard"},
		{"malformed", "from=%zz", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReturnTarget(tt.rawQuery, "/dashboard"); got != tt.want {
				t.Fatalf("ReturnTarget(%q) = %q, want %q", tt.rawQuery, got, tt.want)
			}
		})
	}
}
