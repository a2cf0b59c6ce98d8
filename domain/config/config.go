// Package config provides the configuration model of the server.
package config

import "time"

// Defaults applied by Default.
const (
	DefaultBaseURL       = "https://api.checklyhq.com"
	DefaultTimeout       = 30 * time.Second
	DefaultRate          = 10
	DefaultBurst         = 20
	DefaultMaxConcurrent = 10
	DefaultServiceName   = "checkly-mcp"
)

// ServerConfig is the complete server configuration.
type ServerConfig struct {
	// Credentials authenticate against the Checkly API. They are read
	// from the environment only and never from a file.
	Credentials Credentials `json:"credentials" yaml:"-"`

	// ReadOnly blocks every mutating tool. It is true unless
	// CHECKLY_READ_ONLY is exactly "false".
	ReadOnly bool `json:"read_only" yaml:"-"`

	// API configures the remote client.
	API APIConfig `json:"api" yaml:"api"`
	// Log configures logging.
	Log LogConfig `json:"log" yaml:"log"`
	// Telemetry configures tracing and metrics export.
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
	// Audit configures the audit trail of mutating tool calls.
	Audit AuditConfig `json:"audit" yaml:"audit"`
}

// Credentials identify the Checkly account.
type Credentials struct {
	APIKey    string `json:"api_key"`
	AccountID string `json:"account_id"`
}

// APIConfig configures the Checkly API client.
type APIConfig struct {
	// BaseURL is the API origin.
	BaseURL string `json:"base_url" yaml:"base_url"`
	// Timeout bounds each request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Rate is the number of requests admitted per second.
	Rate int `json:"rate" yaml:"rate"`
	// Burst is the rate limit bucket capacity.
	Burst int `json:"burst" yaml:"burst"`
	// MaxConcurrent limits requests in flight.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
	// Format is json or console.
	Format string `json:"format" yaml:"format"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	// Enabled turns on tracing and metrics.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Exporter is otlp, stdout or noop.
	Exporter string `json:"exporter" yaml:"exporter"`
	// Endpoint is the OTLP gRPC endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS towards the endpoint.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `json:"service_name" yaml:"service_name"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Backend is memory, jsonl, sqlite or none.
	Backend string `json:"backend" yaml:"backend"`
	// Path is the file used by the jsonl and sqlite backends.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Audit backends.
const (
	AuditMemory = "memory"
	AuditJSONL  = "jsonl"
	AuditSQLite = "sqlite"
	AuditNone   = "none"
)

// Telemetry exporters.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNoop   = "noop"
)

// Default returns a configuration with every optional value set. The
// result is read-only and has no credentials.
func Default() ServerConfig {
	return ServerConfig{
		ReadOnly: true,
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       DefaultTimeout,
			Rate:          DefaultRate,
			Burst:         DefaultBurst,
			MaxConcurrent: DefaultMaxConcurrent,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterNoop,
			ServiceName: DefaultServiceName,
		},
		Audit: AuditConfig{
			Backend: AuditMemory,
		},
	}
}

// Redacted returns a copy safe to print: the API key is masked.
func (c ServerConfig) Redacted() ServerConfig {
	out := c
	out.Credentials.APIKey = redact(c.Credentials.APIKey)
	return out
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}
