package authflow

import "errors"

var (
	// ErrServiceRequired is returned by Build when no Service was supplied.
	ErrServiceRequired = errors.New("auth service required")
	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("builder already used")

	// ErrEmailRequired rejects input with an empty email field.
	ErrEmailRequired = errors.New("email is required")
	// ErrPasswordRequired rejects input with an empty password field.
	ErrPasswordRequired = errors.New("password is required")
	// ErrCodeRequired rejects input with an empty verification code.
	ErrCodeRequired = errors.New("code is required")
	// ErrNameRequired rejects input with an empty name field.
	ErrNameRequired = errors.New("name is required")
	// ErrPhoneRequired rejects input with an empty phone number.
	ErrPhoneRequired = errors.New("phone number is required")
	// ErrAuthMethodRequired rejects sign-up input with no method chosen.
	ErrAuthMethodRequired = errors.New("authentication method is required")
	// ErrAuthMethodUnknown rejects sign-up input naming an unknown method.
	ErrAuthMethodUnknown = errors.New("unknown authentication method")
	// ErrProviderUnknown rejects an OAuth provider outside the known set.
	ErrProviderUnknown = errors.New("unknown oauth provider")

	// ErrNotImplemented is the failure reported by [UnimplementedService]
	// for every operation. A concrete backend client must be wired in.
	ErrNotImplemented = errors.New("not implemented: connect a backend auth service")
)

// Default human-readable failure messages, used when a failed service
// result carries neither an error nor a message. A settled failure always
// leaves a non-empty error string in the session store.
const (
	msgSignInFailed         = "Failed to sign in"
	msgPasskeySignInFailed  = "Failed to sign in with passkey"
	msgSendSMSFailed        = "Failed to send SMS code"
	msgVerifySMSFailed      = "Failed to verify SMS code"
	msgVerifyTOTPFailed     = "Failed to verify authenticator code"
	msgSignUpFailed         = "Failed to create account"
	msgSignOutFailed        = "Failed to sign out"
	msgRefreshFailed        = "Failed to refresh session"
	msgUnexpectedFault      = "An unexpected error occurred"
	msgProviderSignInPrefix = "Failed to sign in with "
)
