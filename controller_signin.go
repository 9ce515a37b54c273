package authflow

import "context"

// SignIn runs the password sign-in flow. Input is validated before any
// service call; a rejected input never raises the loading flag. The
// returned bool reports whether the session became authenticated.
func (c *Controller) SignIn(ctx context.Context, in SignInInput) bool {
	if err := in.Validate(); err != nil {
		return c.rejectInput(ctx, auditFlowSignIn, err)
	}

	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.SignIn(ctx, in.Email, in.Password)
	return c.finishIdentityFlow(ctx, auditFlowSignIn, res, err,
		msgSignInFailed, MetricSignInSuccess, MetricSignInFailure)
}

// SignInWithProvider runs the federated OAuth sign-in flow. The failure
// fallback message names the provider ("Failed to sign in with Google").
func (c *Controller) SignInWithProvider(ctx context.Context, provider OAuthProvider) bool {
	if !provider.Valid() {
		return c.rejectInput(ctx, auditFlowProviderSignIn, ErrProviderUnknown)
	}

	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.SignInWithProvider(ctx, provider)
	return c.finishIdentityFlow(ctx, auditFlowProviderSignIn, res, err,
		msgProviderSignInPrefix+provider.Title(),
		MetricProviderSignInSuccess, MetricProviderSignInFailure)
}

// SignInWithPasskey runs the passkey sign-in flow.
func (c *Controller) SignInWithPasskey(ctx context.Context) bool {
	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.SignInWithPasskey(ctx)
	return c.finishIdentityFlow(ctx, auditFlowPasskeySignIn, res, err,
		msgPasskeySignInFailed, MetricPasskeySignInSuccess, MetricPasskeySignInFailure)
}
