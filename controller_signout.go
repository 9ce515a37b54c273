package authflow

import "context"

// SignOut runs the sign-out flow. On success the session resets to the
// signed-out resting state and navigation to the landing route is
// requested.
//
// A refused or faulted sign-out commits an error but otherwise leaves
// the session exactly as it was: the backend session is still live, so
// the user stays authenticated and sees the failure instead of being
// locally signed out of a valid session.
func (c *Controller) SignOut(ctx context.Context) bool {
	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.SignOut(ctx)
	if err != nil {
		c.metrics.Inc(MetricUnexpectedFault)
		c.metrics.Inc(MetricSignOutFailure)
		c.store.Fail(msgSignOutFailed)
		c.emitAudit(ctx, auditFlowSignOut, false, "", err.Error(), nil)
		return false
	}
	if !res.Success {
		errText := res.FailureText()
		if errText == "" {
			errText = msgSignOutFailed
		}
		c.metrics.Inc(MetricSignOutFailure)
		c.store.Fail(errText)
		c.emitAudit(ctx, auditFlowSignOut, false, "", errText, nil)
		return false
	}

	c.metrics.Inc(MetricSignOutSuccess)
	c.store.Clear()
	c.emitAudit(ctx, auditFlowSignOut, true, "", "", nil)
	c.nav.Navigate(c.config.Routes.Landing)
	return true
}
