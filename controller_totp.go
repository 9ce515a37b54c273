package authflow

import "context"

// VerifyTOTP runs the authenticator-code sign-in flow. Both fields are
// validated before the service is contacted; an empty email or code
// commits a failure without any network activity.
func (c *Controller) VerifyTOTP(ctx context.Context, in TOTPInput) bool {
	if err := in.Validate(); err != nil {
		return c.rejectInput(ctx, auditFlowTOTPVerify, err)
	}

	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.VerifyTOTP(ctx, in.Email, in.Code)
	return c.finishIdentityFlow(ctx, auditFlowTOTPVerify, res, err,
		msgVerifyTOTPFailed, MetricTOTPSuccess, MetricTOTPFailure)
}
