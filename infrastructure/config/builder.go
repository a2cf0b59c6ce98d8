package config

import (
	"io"

	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
	"github.com/mayankeq/checkly-mcp/domain/policy"
	"github.com/mayankeq/checkly-mcp/infrastructure/checkly"
	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
	"github.com/mayankeq/checkly-mcp/infrastructure/observability"
	"github.com/mayankeq/checkly-mcp/infrastructure/resilience"
)

// Builder derives component settings from a ServerConfig.
type Builder struct {
	config domainconfig.ServerConfig
}

// NewBuilder creates a builder.
func NewBuilder(config domainconfig.ServerConfig) *Builder {
	return &Builder{config: config}
}

// Gate returns the access gate.
func (b *Builder) Gate() policy.AccessGate {
	return policy.NewAccessGate(b.config.ReadOnly)
}

// ClientConfig returns the Checkly client settings.
func (b *Builder) ClientConfig() checkly.Config {
	return checkly.Config{
		BaseURL:   b.config.API.BaseURL,
		APIKey:    b.config.Credentials.APIKey,
		AccountID: b.config.Credentials.AccountID,
		Timeout:   b.config.API.Timeout,
	}
}

// GuardConfig returns the outbound rate limit and concurrency settings.
func (b *Builder) GuardConfig() resilience.GuardConfig {
	return resilience.GuardConfig{
		MaxConcurrent: b.config.API.MaxConcurrent,
		Rate:          b.config.API.Rate,
		Burst:         b.config.API.Burst,
	}
}

// LoggingConfig returns the logger settings writing to out.
func (b *Builder) LoggingConfig(out io.Writer) logging.Config {
	cfg := logging.DefaultConfig()
	if b.config.Log.Level != "" {
		cfg.Level = b.config.Log.Level
	}
	if b.config.Log.Format != "" {
		cfg.Format = b.config.Log.Format
	}
	if out != nil {
		cfg.Output = out
	}
	return cfg
}

// ObservabilityOptions returns the telemetry provider options. Disabled
// telemetry yields the noop exporter.
func (b *Builder) ObservabilityOptions(version string, out io.Writer) []observability.Option {
	t := b.config.Telemetry
	opts := []observability.Option{
		observability.WithServiceName(t.ServiceName),
		observability.WithServiceVersion(version),
	}
	if !t.Enabled {
		return opts
	}

	switch t.Exporter {
	case domainconfig.ExporterOTLP:
		opts = append(opts, observability.WithOTLP(t.Endpoint, t.Insecure))
	case domainconfig.ExporterStdout:
		opts = append(opts, observability.WithStdout(out))
	}
	return opts
}
