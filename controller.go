package authflow

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/strategiz-io/authflow/internal/audit"
	"github.com/strategiz-io/authflow/session"
)

var now = time.Now

// Controller orchestrates authentication flows. Every flow follows the
// same protocol: mark the session loading, call the backend service,
// commit exactly one outcome transition, and always release the loading
// flag on exit. Flows report success as a bool; operational failures are
// committed to the session store, never returned as errors.
//
// Flows do not guard against concurrent submission of the same flow. Two
// overlapping runs both execute and the later settle wins; the store
// keeps every intermediate state consistent throughout. Callers wanting
// single-submit behavior disable their submit control while
// Session().IsLoading is true.
type Controller struct {
	config  Config
	service Service
	store   *session.Store
	nav     Navigator
	audit   *audit.Dispatcher
	metrics *Metrics

	passkeySupported atomic.Bool
}

// Session returns the current session snapshot.
func (c *Controller) Session() session.Snapshot {
	return c.store.Snapshot()
}

// Store exposes the underlying session store for watchers and guards.
func (c *Controller) Store() *session.Store {
	return c.store
}

// Metrics exposes the flow counters. Nil-safe when metrics are disabled.
func (c *Controller) Metrics() *Metrics {
	return c.metrics
}

// Routes returns the configured navigation targets.
func (c *Controller) Routes() RoutesConfig {
	return c.config.Routes
}

// PasskeySupported reports the cached result of the capability probe.
// It is false until a probe has completed.
func (c *Controller) PasskeySupported() bool {
	return c.passkeySupported.Load()
}

// AuditDropped reports how many audit events were discarded.
func (c *Controller) AuditDropped() uint64 {
	return c.audit.Dropped()
}

// Close releases controller resources. It drains and stops the audit
// dispatcher; the session store stays readable.
func (c *Controller) Close() {
	c.audit.Close()
}

// RefreshAuthMethods probes the backend for passkey support and the
// available auth methods, caching the former and committing the latter
// to the session store. The initial probe runs automatically when the
// controller is built unless Probe.Disabled is set.
func (c *Controller) RefreshAuthMethods(ctx context.Context) error {
	c.passkeySupported.Store(c.service.PasskeySupported(ctx))

	methods, err := c.service.AvailableAuthMethods(ctx)
	if err != nil {
		c.emitAudit(ctx, auditFlowCapabilityProbe, false, "", err.Error(), nil)
		return err
	}

	c.store.SetAuthMethods(&methods)
	c.emitAudit(ctx, auditFlowCapabilityProbe, true, "", "", nil)
	return nil
}

func (c *Controller) backgroundProbe() {
	ctx := context.Background()
	if c.config.Probe.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Probe.Timeout)
		defer cancel()
	}
	_ = c.RefreshAuthMethods(ctx)
}

// finishIdentityFlow commits the outcome of a flow whose success carries
// a user. On success the user is committed and navigation to the
// dashboard requested; on failure the envelope's description is
// committed, falling back to defaultMsg when the envelope is silent.
func (c *Controller) finishIdentityFlow(
	ctx context.Context,
	flow string,
	res Result[User],
	callErr error,
	defaultMsg string,
	successMetric, failureMetric MetricID,
) bool {
	if callErr != nil {
		c.metrics.Inc(MetricUnexpectedFault)
		c.metrics.Inc(failureMetric)
		c.store.Fail(defaultMsg)
		c.emitAudit(ctx, flow, false, "", callErr.Error(), nil)
		return false
	}

	if !res.Success || res.Data == nil {
		errText := res.FailureText()
		if errText == "" {
			errText = defaultMsg
		}
		c.metrics.Inc(failureMetric)
		c.store.Fail(errText)
		c.emitAudit(ctx, flow, false, "", errText, nil)
		return false
	}

	user := res.Data
	c.metrics.Inc(successMetric)
	c.store.Succeed(user)
	c.emitAudit(ctx, flow, true, user.ID, "", nil)
	c.nav.Navigate(c.config.Routes.Dashboard)
	return true
}

// rejectInput commits a validation failure without contacting the
// service. The loading flag is never raised for rejected input.
func (c *Controller) rejectInput(ctx context.Context, flow string, err error) bool {
	c.metrics.Inc(MetricValidationRejected)
	c.store.Fail(err.Error())
	c.emitAudit(ctx, flow, false, "", err.Error(), nil)
	return false
}

func (c *Controller) observeFlow(start time.Time) {
	c.metrics.Observe(MetricFlowLatency, now().Sub(start))
}
