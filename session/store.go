// Package session holds the authoritative in-process view of the current
// authentication session: who is signed in, whether a flow is in flight,
// the most recent failure, and which auth methods the backend offers.
//
// The store is the only writer of this state. Flow code requests
// transitions (Begin, Succeed, Fail, Settle, Clear, SetAuthMethods) and
// everything else observes through Snapshot or a Watch channel. State is
// process-local and deliberately unpersisted; a restart always comes up
// signed out and is rehydrated from the backend.
package session

import "sync"

// Store owns the session singleton. The zero value is not usable; create
// one with [NewStore]. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	user     *User
	loading  bool
	errText  string
	methods  *AuthMethods
	watchers map[chan Snapshot]struct{}
}

// NewStore returns a store in the signed-out resting state: no user, no
// pending flow, no error.
func NewStore() *Store {
	return &Store{
		watchers: make(map[chan Snapshot]struct{}),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Begin marks a flow as in flight. It raises the loading flag and clears
// any stale error so consumers never render an old failure next to a
// fresh spinner. Identity is left untouched.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.errText = ""
	s.publishLocked()
}

// Succeed commits user as the authenticated identity, drops the loading
// flag, and clears any error. user must be non-nil.
func (s *Store) Succeed(user *User) {
	if user == nil {
		panic("session: Succeed called with nil user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.loading = false
	s.errText = ""
	s.publishLocked()
}

// Fail records a failed flow: the loading flag is released and errText
// becomes the current error. Identity is left untouched; a failed
// secondary flow must not locally sign out a user whose backend session
// is still valid. Flows are expected to pass a non-empty description; an
// empty one is stored as given.
func (s *Store) Fail(errText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.errText = errText
	s.publishLocked()
}

// Settle releases the loading flag without touching identity or error.
// Flows call it unconditionally on exit so that outcomes which are
// neither a new identity nor a failure (a sent SMS code, a sign-out that
// was refused) still end the in-flight state. Settle is idempotent; when
// Succeed or Fail already ran it changes nothing and publishes nothing.
func (s *Store) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loading {
		return
	}
	s.loading = false
	s.publishLocked()
}

// Clear resets the session to the signed-out resting state. Auth method
// capabilities are retained; they describe the backend, not the user.
// Clear is idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loading = false
	s.errText = ""
	s.publishLocked()
}

// SetAuthMethods records the backend's capability descriptor. It is
// independent of the flow lifecycle and never touches identity, loading,
// or error. A nil methods clears the descriptor back to unknown.
func (s *Store) SetAuthMethods(methods *AuthMethods) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if methods == nil {
		s.methods = nil
	} else {
		m := *methods
		s.methods = &m
	}
	s.publishLocked()
}

// Watch registers a snapshot channel with the given buffer size. Every
// state transition publishes the post-transition snapshot; when the
// channel buffer is full the update is dropped rather than blocking the
// transition, so a watcher always eventually sees a recent state but may
// miss intermediates. Callers must release the channel with [Store.Unwatch].
func (s *Store) Watch(buffer int) <-chan Snapshot {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers[ch] = struct{}{}
	return ch
}

// Unwatch removes a channel registered with [Store.Watch] and closes it.
// Unknown channels are ignored.
func (s *Store) Unwatch(ch <-chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for registered := range s.watchers {
		if (<-chan Snapshot)(registered) == ch {
			delete(s.watchers, registered)
			close(registered)
			return
		}
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:            s.user,
		IsAuthenticated: s.user != nil,
		IsLoading:       s.loading,
		Error:           s.errText,
		AuthMethods:     s.methods,
	}
}

func (s *Store) publishLocked() {
	if len(s.watchers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.watchers {
		select {
		case ch <- snap:
		default:
		}
	}
}
