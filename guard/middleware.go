package guard

import (
	"context"
	"net/http"

	"github.com/strategiz-io/authflow/session"
)

// SnapshotSource supplies the current session state to middleware.
// *session.Store satisfies it.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

type userContextKey struct{}

// UserFromContext returns the user attached by [ProtectedMiddleware].
func UserFromContext(ctx context.Context) (*session.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*session.User)
	return user, ok
}

// ProtectedMiddleware applies the Protected guard to every request. An
// allowed request carries the session user in its context; a redirected
// request receives 303 See Other to the sign-in route with the original
// path preserved. Pending sessions receive 503 with Retry-After, the
// HTTP rendering of "wait".
func ProtectedMiddleware(source SnapshotSource, routes Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := source.Snapshot()
			decision := Protected(snap, routes, r.URL.Path)
			switch decision.Action {
			case Allow:
				ctx := context.WithValue(r.Context(), userContextKey{}, snap.User)
				next.ServeHTTP(w, r.WithContext(ctx))
			case Redirect:
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			default:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session pending", http.StatusServiceUnavailable)
			}
		})
	}
}

// PublicMiddleware applies the Public guard to every request, bouncing
// authenticated visitors to the dashboard.
func PublicMiddleware(source SnapshotSource, routes Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Public(source.Snapshot(), routes)
			switch decision.Action {
			case Allow:
				next.ServeHTTP(w, r)
			case Redirect:
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			default:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session pending", http.StatusServiceUnavailable)
			}
		})
	}
}
