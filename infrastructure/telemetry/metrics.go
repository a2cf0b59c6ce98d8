// Package telemetry provides OpenTelemetry metrics for the Checkly MCP
// server.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricToolCalls       = "checkly_mcp.tool.calls"
	MetricToolDuration    = "checkly_mcp.tool.duration"
	MetricAPIRequests     = "checkly_mcp.api.requests"
	MetricAPIDuration     = "checkly_mcp.api.duration"
	MetricPollIterations  = "checkly_mcp.run.poll_iterations"
	MetricGuardedOutcomes = "checkly_mcp.guarded.outcomes"
	MetricErrors          = "checkly_mcp.errors"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	toolCalls       metric.Int64Counter
	apiRequests     metric.Int64Counter
	pollIterations  metric.Int64Counter
	guardedOutcomes metric.Int64Counter
	errors          metric.Int64Counter

	toolDuration metric.Float64Histogram
	apiDuration  metric.Float64Histogram

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter.
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// MeterProvider overrides the global provider.
	MeterProvider metric.MeterProvider
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/mayankeq/checkly-mcp",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config.MeterName = DefaultMetricsConfig().MeterName
	}

	provider := config.MeterProvider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initErr = mp.initInstruments()
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
		unit   string
	}{
		{&mp.toolCalls, MetricToolCalls, "Number of tool calls", "{call}"},
		{&mp.apiRequests, MetricAPIRequests, "Number of Checkly API requests", "{request}"},
		{&mp.pollIterations, MetricPollIterations, "Number of check session polls", "{poll}"},
		{&mp.guardedOutcomes, MetricGuardedOutcomes, "Outcomes of mutating tool calls", "{outcome}"},
		{&mp.errors, MetricErrors, "Number of errors", "{error}"},
	}
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return err
		}
	}

	mp.toolDuration, err = mp.meter.Float64Histogram(
		MetricToolDuration,
		metric.WithDescription("Duration of tool calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.apiDuration, err = mp.meter.Float64Histogram(
		MetricAPIDuration,
		metric.WithDescription("Duration of Checkly API requests"),
		metric.WithUnit("ms"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordToolCall records one tool call.
func (mp *MetricsProvider) RecordToolCall(ctx context.Context, toolName string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.Bool("success", success),
	)

	mp.toolCalls.Add(ctx, 1, attrs)
	mp.toolDuration.Record(ctx, float64(duration.Milliseconds()), attrs)

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "tool_call"),
			attribute.String("tool.name", toolName),
		))
	}
}

// RecordAPIRequest records one Checkly API request. status is 0 when no
// response was received.
func (mp *MetricsProvider) RecordAPIRequest(ctx context.Context, method string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status),
	)

	mp.apiRequests.Add(ctx, 1, attrs)
	mp.apiDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordPollIteration records one poll of a check session.
func (mp *MetricsProvider) RecordPollIteration(ctx context.Context, status string) {
	mp.pollIterations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session.status", status),
	))
}

// RecordGuardedOutcome records what a mutating tool call did.
func (mp *MetricsProvider) RecordGuardedOutcome(ctx context.Context, toolName, outcome string) {
	mp.guardedOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("outcome", outcome),
	))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// NoopMetricsProvider is a no-op metrics provider for testing or when
// metrics are disabled.
type NoopMetricsProvider struct{}

// RecordToolCall is a no-op.
func (NoopMetricsProvider) RecordToolCall(context.Context, string, bool, time.Duration) {}

// RecordAPIRequest is a no-op.
func (NoopMetricsProvider) RecordAPIRequest(context.Context, string, int, time.Duration) {}

// RecordPollIteration is a no-op.
func (NoopMetricsProvider) RecordPollIteration(context.Context, string) {}

// RecordGuardedOutcome is a no-op.
func (NoopMetricsProvider) RecordGuardedOutcome(context.Context, string, string) {}

// RecordError is a no-op.
func (NoopMetricsProvider) RecordError(context.Context, string, map[string]string) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordToolCall(ctx context.Context, toolName string, success bool, duration time.Duration)
	RecordAPIRequest(ctx context.Context, method string, status int, duration time.Duration)
	RecordPollIteration(ctx context.Context, status string)
	RecordGuardedOutcome(ctx context.Context, toolName, outcome string)
	RecordError(ctx context.Context, errorType string, details map[string]string)
}

var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetricsProvider{}
)
