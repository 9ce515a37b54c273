package authflow

import "context"

// Service is the contract every authentication backend client must satisfy.
// It is the only boundary between flow orchestration and the external
// business-logic layer; concrete transports (HTTP, gRPC, in-memory fakes)
// implement it and are selected at construction time.
//
// Operations that perform network I/O return a [Result] envelope plus an
// error. Expected operational failures (invalid credentials, unknown codes,
// transport outages) are reported inside the envelope with Success=false
// and never as a Go error. The error return is reserved for unexpected
// faults (malformed responses, contract violations); the controller catches
// those and converts them into a failed session transition, so neither
// channel can leave the loading flag stuck.
type Service interface {
	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (Result[User], error)
	// SignInWithProvider authenticates through a federated OAuth provider.
	SignInWithProvider(ctx context.Context, provider OAuthProvider) (Result[User], error)
	// SignInWithPasskey authenticates with a platform passkey.
	SignInWithPasskey(ctx context.Context) (Result[User], error)
	// RegisterPasskey enrolls a passkey for an existing user.
	RegisterPasskey(ctx context.Context, userID string) (Result[bool], error)

	// SendSMSCode requests a one-time code for the given phone number.
	// A successful send conveys no identity; only VerifySMSCode can.
	SendSMSCode(ctx context.Context, phone string) (Result[bool], error)
	// VerifySMSCode exchanges a previously sent code for an identity.
	VerifySMSCode(ctx context.Context, code string) (Result[User], error)
	// VerifyTOTP verifies an authenticator code for the given email.
	VerifyTOTP(ctx context.Context, email, code string) (Result[User], error)

	// CreateUser registers a new account.
	CreateUser(ctx context.Context, input CreateUserInput) (Result[User], error)
	// SignOut terminates the current backend session.
	SignOut(ctx context.Context) (Result[Void], error)
	// RefreshSession re-derives the current identity from backend state,
	// used to rehydrate the session on a fresh start.
	RefreshSession(ctx context.Context) (Result[User], error)

	// PasskeySupported is a capability probe. It must not fail: when the
	// ambient platform or backend cannot answer, it reports false.
	PasskeySupported(ctx context.Context) bool
	// AvailableAuthMethods reports which authentication methods the
	// backend offers.
	AvailableAuthMethods(ctx context.Context) (AuthMethods, error)
}

// UnimplementedService is the default backend client. Every operation
// reports an expected failure carrying [ErrNotImplemented]; nothing ever
// reaches an authenticated state through it. It exists so a controller can
// be built and exercised before a real backend client is wired in, and as
// a forward-compatible embed for partial Service implementations.
type UnimplementedService struct{}

var _ Service = UnimplementedService{}

func notImplemented[T any]() (Result[T], error) {
	return Failure[T](ErrNotImplemented.Error(), "Operation not implemented"), nil
}

func (UnimplementedService) SignIn(context.Context, string, string) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) SignInWithProvider(context.Context, OAuthProvider) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) SignInWithPasskey(context.Context) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) RegisterPasskey(context.Context, string) (Result[bool], error) {
	return notImplemented[bool]()
}

func (UnimplementedService) SendSMSCode(context.Context, string) (Result[bool], error) {
	return notImplemented[bool]()
}

func (UnimplementedService) VerifySMSCode(context.Context, string) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) VerifyTOTP(context.Context, string, string) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) CreateUser(context.Context, CreateUserInput) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) SignOut(context.Context) (Result[Void], error) {
	return notImplemented[Void]()
}

func (UnimplementedService) RefreshSession(context.Context) (Result[User], error) {
	return notImplemented[User]()
}

func (UnimplementedService) PasskeySupported(context.Context) bool { return false }

func (UnimplementedService) AvailableAuthMethods(context.Context) (AuthMethods, error) {
	return AuthMethods{}, nil
}
