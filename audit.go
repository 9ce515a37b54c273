package authflow

import (
	"context"
	"io"

	"github.com/strategiz-io/authflow/internal/audit"
)

// AuditEvent is the outcome record emitted after each flow run.
type AuditEvent = audit.Event

// AuditSink receives flow outcome events. Delivery is asynchronous; a
// slow sink never blocks a flow when Audit.DropIfFull is set.
type AuditSink = audit.Sink

// NewChannelAuditSink returns a sink that forwards events into a buffered
// channel, for consumers that want to process events in their own loop.
func NewChannelAuditSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONAuditSink returns a sink that writes one JSON event per line.
func NewJSONAuditSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// Flow names used in audit events.
const (
	auditFlowSignIn          = "signin.password"
	auditFlowProviderSignIn  = "signin.provider"
	auditFlowPasskeySignIn   = "signin.passkey"
	auditFlowSMSSend         = "sms.send"
	auditFlowSMSVerify       = "sms.verify"
	auditFlowTOTPVerify      = "totp.verify"
	auditFlowSignUp          = "signup"
	auditFlowSignOut         = "signout"
	auditFlowRefresh         = "session.refresh"
	auditFlowCapabilityProbe = "capability.probe"
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *audit.Dispatcher {
	return audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

func (c *Controller) emitAudit(ctx context.Context, flow string, success bool, userID string, errText string, metadata func() map[string]string) {
	if c.audit == nil {
		return
	}

	event := audit.Event{
		Timestamp: now(),
		Flow:      flow,
		Success:   success,
		UserID:    userID,
		Error:     errText,
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	c.audit.Emit(ctx, event)
}
