package application

import (
	"time"

	"github.com/mayankeq/checkly-mcp/infrastructure/clock"
	"github.com/mayankeq/checkly-mcp/infrastructure/telemetry"
)

// Await loop timing.
const (
	DefaultPollInterval = 3 * time.Second
	DefaultAwaitTimeout = 120 * time.Second
)

// WorkflowConfig contains the collaborators shared by the workflows.
type WorkflowConfig struct {
	Clock        clock.Clock
	Metrics      telemetry.Metrics
	PollInterval time.Duration
	AwaitTimeout time.Duration
}

func defaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		Clock:        clock.Real(),
		Metrics:      telemetry.NoopMetricsProvider{},
		PollInterval: DefaultPollInterval,
		AwaitTimeout: DefaultAwaitTimeout,
	}
}

// Option configures a workflow.
type Option func(*WorkflowConfig)

// WithClock sets the clock the await loop waits on.
func WithClock(c clock.Clock) Option {
	return func(cfg *WorkflowConfig) {
		cfg.Clock = c
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(cfg *WorkflowConfig) {
		cfg.Metrics = m
	}
}

// WithPollInterval sets the pause between session polls.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *WorkflowConfig) {
		cfg.PollInterval = d
	}
}

// WithAwaitTimeout sets how long an awaited run may take.
func WithAwaitTimeout(d time.Duration) Option {
	return func(cfg *WorkflowConfig) {
		cfg.AwaitTimeout = d
	}
}

func buildConfig(opts []Option) WorkflowConfig {
	cfg := defaultWorkflowConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NoopMetricsProvider{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.AwaitTimeout <= 0 {
		cfg.AwaitTimeout = DefaultAwaitTimeout
	}
	return cfg
}
