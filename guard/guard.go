// Package guard derives route admission decisions from session state.
//
// A guard is a pure function of a session snapshot: it never triggers
// authentication work of its own and never mutates the session. The two
// variants mirror the two kinds of views an application has. Protected
// views require an authenticated session and send visitors to sign-in
// otherwise; Public views are the sign-in and sign-up surfaces
// themselves, which bounce an already-authenticated user to the
// dashboard. While a flow is in flight both variants wait rather than
// redirect, so a slow backend never causes a redirect flicker.
package guard

import (
	"net/url"

	"github.com/strategiz-io/authflow/session"
)

// State classifies a session snapshot for admission purposes.
type State int

const (
	// Pending means an auth flow is in flight; render a waiting view.
	Pending State = iota
	// Authenticated means a user is signed in.
	Authenticated
	// Unauthenticated means no user is signed in and nothing is pending.
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Classify derives the admission state from a snapshot. Loading takes
// precedence: a snapshot that is both authenticated and loading (a
// signed-in user running another flow) still classifies as Pending so
// guards hold their decision until the flow settles.
func Classify(snap session.Snapshot) State {
	if snap.IsLoading {
		return Pending
	}
	if snap.IsAuthenticated {
		return Authenticated
	}
	return Unauthenticated
}

// Action tells the caller what to do with the current request.
type Action int

const (
	// Allow renders the requested view.
	Allow Action = iota
	// Redirect navigates to Decision.Target instead.
	Redirect
	// Wait renders a neutral loading view until the session settles.
	Wait
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Wait:
		return "wait"
	}
	return "unknown"
}

// Decision is the outcome of guarding one route.
type Decision struct {
	Action Action
	// Target is the route to navigate to when Action is Redirect.
	Target string
}

// Routes names the destinations guards redirect to.
type Routes struct {
	// SignIn receives unauthenticated visitors of protected views.
	SignIn string
	// Dashboard receives authenticated visitors of public auth views.
	Dashboard string
}

// Protected guards a view that requires an authenticated session.
// Unauthenticated visitors are redirected to sign-in with the originally
// requested route preserved in the "from" query parameter, so a later
// successful sign-in can return them.
func Protected(snap session.Snapshot, routes Routes, requested string) Decision {
	switch Classify(snap) {
	case Pending:
		return Decision{Action: Wait}
	case Authenticated:
		return Decision{Action: Allow}
	default:
		return Decision{Action: Redirect, Target: withFrom(routes.SignIn, requested)}
	}
}

// Public guards a sign-in or sign-up view. An already-authenticated
// visitor has nothing to do there and is redirected to the dashboard.
func Public(snap session.Snapshot, routes Routes) Decision {
	switch Classify(snap) {
	case Pending:
		return Decision{Action: Wait}
	case Authenticated:
		return Decision{Action: Redirect, Target: routes.Dashboard}
	default:
		return Decision{Action: Allow}
	}
}

// ReturnTarget extracts the preserved "from" route of a sign-in URL.
// It returns fallback when none is present or the value is not a local
// route, so a crafted query string cannot redirect off-site.
func ReturnTarget(rawQuery, fallback string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return fallback
	}
	from := values.Get("from")
	if from == "" || from[0] != '/' || (len(from) > 1 && from[1] == '/') {
		return fallback
	}
	return from
}

func withFrom(signIn, requested string) string {
	if requested == "" || requested == signIn {
		return signIn
	}
	return signIn + "?from=" + url.QueryEscape(requested)
}
