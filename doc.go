// Package authflow coordinates authentication flows and the session
// view-state they produce: who is signed in, whether a flow is in
// flight, the most recent failure, and which auth methods the backend
// offers.
//
// A [Controller] is assembled through [Builder.Build] and drives every
// flow against a backend [Service] client, committing outcomes to a
// session store that views and guards observe. Flow methods are safe to
// call from multiple goroutines after Build.
//
// # Architecture boundaries
//
// authflow is the orchestration surface. It owns no business logic:
// credential checks, code delivery, and passkey ceremonies all happen
// behind the [Service] contract, implemented by httpclient for the REST
// backend and by test fakes. Route guarding lives in the guard
// sub-package and reads session state without ever writing it.
//
// # What this package must NOT do
//
//   - Persist identity on the client side; a restart is always signed
//     out until [Controller.RefreshSession] rehydrates from the backend.
//   - Return operational failures as Go errors from flow methods;
//     failures are committed to the session store and flows report a
//     bool.
//   - Leave the session loading after a flow exits, on any path.
package authflow
