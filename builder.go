package authflow

import "github.com/strategiz-io/authflow/session"

// Builder assembles a [Controller]. Configure it with the With methods
// and finish with Build; a builder is single-use.
type Builder struct {
	config  Config
	service Service
	store   *session.Store
	nav     Navigator
	sink    AuditSink

	built bool
}

// New returns a builder carrying the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithService sets the backend auth service client. Required.
func (b *Builder) WithService(svc Service) *Builder {
	b.service = svc
	return b
}

// WithSessionStore injects a session store. When omitted, Build creates
// a fresh one; injecting is how tests and multi-controller setups share
// or pre-seed session state.
func (b *Builder) WithSessionStore(store *session.Store) *Builder {
	b.store = store
	return b
}

// WithNavigator sets the navigation callback invoked on successful
// flows. When omitted, navigation requests are dropped.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.nav = nav
	return b
}

// WithAuditSink sets the sink for flow outcome events and enables audit.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles flow counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the flow latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithProbeDisabled suppresses the background capability probe.
func (b *Builder) WithProbeDisabled() *Builder {
	b.config.Probe.Disabled = true
	return b
}

// Build validates the configuration and assembles the controller. Unless
// disabled, a capability probe starts in the background; its results
// arrive through the session store's auth methods field.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.service == nil {
		return nil, ErrServiceRequired
	}

	store := b.store
	if store == nil {
		store = session.NewStore()
	}

	nav := b.nav
	if nav == nil {
		nav = noopNavigator{}
	}

	c := &Controller{
		config:  cfg,
		service: b.service,
		store:   store,
		nav:     nav,
		audit:   newAuditDispatcher(cfg.Audit, b.sink),
		metrics: NewMetrics(cfg.Metrics),
	}

	if !cfg.Probe.Disabled {
		go c.backgroundProbe()
	}

	b.built = true

	return c, nil
}
