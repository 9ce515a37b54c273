package authflow

import (
	"time"

	"github.com/strategiz-io/authflow/session"
)

// User is the identity record committed into the session store after a
// successful authentication or sign-up. It is owned by the session store;
// flows never mutate a User in place.
type User = session.User

// OAuthProvider names a federated sign-in provider.
type OAuthProvider string

const (
	// ProviderGoogle is the Google OAuth provider.
	ProviderGoogle OAuthProvider = "google"
	// ProviderFacebook is the Facebook OAuth provider.
	ProviderFacebook OAuthProvider = "facebook"
	// ProviderTwitter is the Twitter OAuth provider.
	ProviderTwitter OAuthProvider = "twitter"
	// ProviderGithub is the GitHub OAuth provider.
	ProviderGithub OAuthProvider = "github"
)

// Valid reports whether p is one of the known providers.
func (p OAuthProvider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderFacebook, ProviderTwitter, ProviderGithub:
		return true
	}
	return false
}

// Title returns the provider name cased for human-readable failure
// messages ("Failed to sign in with Google").
func (p OAuthProvider) Title() string {
	switch p {
	case ProviderGoogle:
		return "Google"
	case ProviderFacebook:
		return "Facebook"
	case ProviderTwitter:
		return "Twitter"
	case ProviderGithub:
		return "GitHub"
	}
	return string(p)
}

// OAuthMethods flags which federated providers the backend offers.
type OAuthMethods = session.OAuthMethods

// AuthMethods is the capability descriptor returned by the backend probe.
// It gates which sign-in tiles a consumer should present; it carries no
// identity and is independent of the begin/succeed/fail lifecycle.
type AuthMethods = session.AuthMethods

// Authentication method names accepted at sign-up.
const (
	// MethodPassword selects password authentication at sign-up.
	MethodPassword = "password"
	// MethodPasskey selects passkey authentication at sign-up.
	MethodPasskey = "passkey"
)

// Void is the payload type for operations that succeed without data.
type Void struct{}

// Result is the uniform envelope returned by every [Service] operation.
//
// Success=true implies Data != nil for operations that produce a payload.
// Success=false implies Error is present, or Message as a fallback; the
// controller never commits an empty failure to the session store.
type Result[T any] struct {
	Success   bool      `json:"success"`
	Data      *T        `json:"data"`
	Error     string    `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Result[T] {
	return Result[T]{
		Success:   true,
		Data:      &data,
		Timestamp: time.Now(),
	}
}

// Failure builds a failed envelope from an error code/string and an
// optional human-readable message.
func Failure[T any](errText, message string) Result[T] {
	return Result[T]{
		Success:   false,
		Error:     errText,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// FailureText returns the best available failure description: Error first,
// Message second, empty string when the envelope carries neither. Callers
// substitute an operation-specific default for the empty case.
func (r Result[T]) FailureText() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// SignInInput is the validated input for password sign-in.
type SignInInput struct {
	Email    string
	Password string
}

// Validate reports the first missing field.
func (in SignInInput) Validate() error {
	if in.Email == "" {
		return ErrEmailRequired
	}
	if in.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// TOTPInput is the validated input for authenticator-code verification.
// Both fields must be non-empty before the service is contacted.
type TOTPInput struct {
	Email string
	Code  string
}

// Validate reports the first missing field.
func (in TOTPInput) Validate() error {
	if in.Email == "" {
		return ErrEmailRequired
	}
	if in.Code == "" {
		return ErrCodeRequired
	}
	return nil
}

// SignUpInput is the validated input for account creation.
type SignUpInput struct {
	Name       string
	Email      string
	AuthMethod string
}

// Validate checks required fields and the chosen authentication method.
func (in SignUpInput) Validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Email == "" {
		return ErrEmailRequired
	}
	switch in.AuthMethod {
	case MethodPassword, MethodPasskey:
		return nil
	case "":
		return ErrAuthMethodRequired
	}
	return ErrAuthMethodUnknown
}

// CreateUserInput is the payload handed to [Service.CreateUser]. It mirrors
// SignUpInput after validation.
type CreateUserInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	AuthMethod string `json:"auth_method"`
}
