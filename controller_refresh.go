package authflow

import "context"

// RefreshSession rehydrates the session from backend state, typically on
// a fresh start where no identity is persisted locally. A recovered user
// is committed without navigation; the caller stays wherever it is.
//
// Finding no live backend session is the normal cold-start outcome, so
// it clears the session silently instead of committing an error. Only an
// unexpected fault records the default refresh failure message.
func (c *Controller) RefreshSession(ctx context.Context) bool {
	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.RefreshSession(ctx)
	if err != nil {
		c.metrics.Inc(MetricUnexpectedFault)
		c.metrics.Inc(MetricRefreshFailure)
		c.store.Fail(msgRefreshFailed)
		c.emitAudit(ctx, auditFlowRefresh, false, "", err.Error(), nil)
		return false
	}
	if !res.Success || res.Data == nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.store.Clear()
		c.emitAudit(ctx, auditFlowRefresh, false, "", res.FailureText(), nil)
		return false
	}

	user := res.Data
	c.metrics.Inc(MetricRefreshSuccess)
	c.store.Succeed(user)
	c.emitAudit(ctx, auditFlowRefresh, true, user.ID, "", nil)
	return true
}
