package authflow

import (
	"errors"
	"strings"
	"time"
)

// Config carries all tunable behavior of a [Controller]. Configure it
// before Build; the controller treats it as immutable afterwards.
type Config struct {
	Routes  RoutesConfig
	Probe   ProbeConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig names the symbolic navigation targets requested by flows
// and guards. The actual routing mechanism is the caller's concern; these
// are destinations, not URLs the library fetches.
type RoutesConfig struct {
	// SignIn is the unauthenticated sign-in entry point.
	SignIn string
	// SignUp is the unauthenticated sign-up entry point.
	SignUp string
	// Dashboard is the default authenticated landing view.
	Dashboard string
	// Landing is the default unauthenticated landing view.
	Landing string
}

/*
====================================
PROBE CONFIG
====================================
*/

// ProbeConfig controls the one-shot capability probe that runs when a
// controller is built.
type ProbeConfig struct {
	// Timeout bounds the background probe of passkey support and
	// available auth methods.
	Timeout time.Duration
	// Disabled skips the background probe entirely. Callers can still
	// probe explicitly through [Controller.RefreshAuthMethods].
	Disabled bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls asynchronous audit event dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process flow counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Routes: RoutesConfig{
			SignIn:    "/signin",
			SignUp:    "/signup",
			Dashboard: "/dashboard",
			Landing:   "/",
		},
		Probe: ProbeConfig{
			Timeout: 5 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the baseline configuration: conventional route
// targets, a 5s capability probe, audit and metrics disabled.
func DefaultConfig() Config {
	return defaultConfig()
}

// Validate rejects configurations a controller cannot operate on.
func (c Config) Validate() error {
	for _, route := range []struct {
		name  string
		value string
	}{
		{"SignIn", c.Routes.SignIn},
		{"SignUp", c.Routes.SignUp},
		{"Dashboard", c.Routes.Dashboard},
		{"Landing", c.Routes.Landing},
	} {
		if route.value == "" {
			return errors.New("Routes." + route.name + " must not be empty")
		}
		if !strings.HasPrefix(route.value, "/") {
			return errors.New("Routes." + route.name + " must start with /")
		}
	}

	if c.Probe.Timeout < 0 {
		return errors.New("Probe.Timeout must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone exists so future
	// reference-typed fields cannot alias caller state.
	return cfg
}
