package authflow

import "context"

// SendSMSCode requests a one-time code for phone. This is the first half
// of the SMS flow: success means the code was accepted for delivery and
// conveys no identity, so the session ends the flow settled but not
// authenticated. Only [Controller.VerifySMSCode] can authenticate.
func (c *Controller) SendSMSCode(ctx context.Context, phone string) bool {
	if phone == "" {
		return c.rejectInput(ctx, auditFlowSMSSend, ErrPhoneRequired)
	}

	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.SendSMSCode(ctx, phone)
	if err != nil {
		c.metrics.Inc(MetricUnexpectedFault)
		c.metrics.Inc(MetricSMSSendFailure)
		c.store.Fail(msgSendSMSFailed)
		c.emitAudit(ctx, auditFlowSMSSend, false, "", err.Error(), nil)
		return false
	}

	if !res.Success {
		errText := res.FailureText()
		if errText == "" {
			errText = msgSendSMSFailed
		}
		c.metrics.Inc(MetricSMSSendFailure)
		c.store.Fail(errText)
		c.emitAudit(ctx, auditFlowSMSSend, false, "", errText, nil)
		return false
	}

	c.metrics.Inc(MetricSMSSendSuccess)
	c.emitAudit(ctx, auditFlowSMSSend, true, "", "", nil)
	return true
}

// VerifySMSCode exchanges a previously sent code for an identity,
// completing the SMS flow.
func (c *Controller) VerifySMSCode(ctx context.Context, code string) bool {
	if code == "" {
		return c.rejectInput(ctx, auditFlowSMSVerify, ErrCodeRequired)
	}

	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.VerifySMSCode(ctx, code)
	return c.finishIdentityFlow(ctx, auditFlowSMSVerify, res, err,
		msgVerifySMSFailed, MetricSMSVerifySuccess, MetricSMSVerifyFailure)
}
