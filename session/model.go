package session

import "time"

// User is the identity record held by an authenticated session. It is
// committed as a whole by [Store.Succeed] and never mutated in place.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OAuthMethods flags which federated providers the backend offers.
type OAuthMethods struct {
	Google   bool `json:"google"`
	Facebook bool `json:"facebook"`
	Twitter  bool `json:"twitter"`
	Github   bool `json:"github"`
}

// AuthMethods is the capability descriptor discovered from the backend.
// It gates which sign-in options a consumer should present; it carries
// no identity and changes independently of the auth lifecycle.
type AuthMethods struct {
	Passkey bool         `json:"passkey"`
	SMS     bool         `json:"sms"`
	TOTP    bool         `json:"totp"`
	OAuth   OAuthMethods `json:"oauth"`
}

// Snapshot is an immutable point-in-time view of the session. Watchers
// receive Snapshots by value; the User and AuthMethods pointers reference
// records the store never mutates after commit.
//
// Invariant: IsAuthenticated is true exactly when User is non-nil. The
// store enforces this on every transition; consumers may rely on either
// field interchangeably.
type Snapshot struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
	AuthMethods     *AuthMethods
}
