package authflow

import "context"

// SignUp runs the account creation flow and, when the chosen method is
// passkey, the follow-up passkey enrollment.
//
// Enrollment is the second phase of a two-phase flow: the account
// already exists on the backend when enrollment starts, and the created
// user is committed to the session before enrollment is attempted. If
// enrollment fails the account and the signed-in identity are
// deliberately kept, the session records a compound failure naming both
// facts, and SignUp reports false. The user retries enrollment from
// settings or signs in with another method next time.
func (c *Controller) SignUp(ctx context.Context, in SignUpInput) bool {
	if err := in.Validate(); err != nil {
		return c.rejectInput(ctx, auditFlowSignUp, err)
	}

	defer c.observeFlow(now())
	c.store.Begin()
	defer c.store.Settle()

	res, err := c.service.CreateUser(ctx, CreateUserInput{
		Name:       in.Name,
		Email:      in.Email,
		AuthMethod: in.AuthMethod,
	})
	if err != nil {
		c.metrics.Inc(MetricUnexpectedFault)
		c.metrics.Inc(MetricSignUpFailure)
		c.store.Fail(msgSignUpFailed)
		c.emitAudit(ctx, auditFlowSignUp, false, "", err.Error(), nil)
		return false
	}
	if !res.Success || res.Data == nil {
		errText := res.FailureText()
		if errText == "" {
			errText = msgSignUpFailed
		}
		c.metrics.Inc(MetricSignUpFailure)
		c.store.Fail(errText)
		c.emitAudit(ctx, auditFlowSignUp, false, "", errText, nil)
		return false
	}

	user := res.Data
	c.store.Succeed(user)

	if in.AuthMethod == MethodPasskey {
		if ok := c.enrollPasskey(ctx, user); !ok {
			return false
		}
	}

	c.metrics.Inc(MetricSignUpSuccess)
	c.emitAudit(ctx, auditFlowSignUp, true, user.ID, "", func() map[string]string {
		return map[string]string{"auth_method": in.AuthMethod}
	})
	c.nav.Navigate(c.config.Routes.Dashboard)
	return true
}

func (c *Controller) enrollPasskey(ctx context.Context, user *User) bool {
	res, err := c.service.RegisterPasskey(ctx, user.ID)

	var detail string
	switch {
	case err != nil:
		c.metrics.Inc(MetricUnexpectedFault)
		detail = msgUnexpectedFault
	case !res.Success:
		detail = res.FailureText()
		if detail == "" {
			detail = "passkey registration was refused"
		}
	default:
		return true
	}

	c.metrics.Inc(MetricPasskeyEnrollFailure)
	c.metrics.Inc(MetricSignUpFailure)
	c.store.Fail("Account created but passkey setup failed: " + detail)
	c.emitAudit(ctx, auditFlowSignUp, false, user.ID, detail, func() map[string]string {
		return map[string]string{"auth_method": MethodPasskey, "phase": "enroll"}
	})
	return false
}
