package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/domain/tool"
)

// DefaultTracerName is the instrumentation scope of tool spans.
const DefaultTracerName = "github.com/mayankeq/checkly-mcp"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// Tracer is the tracer to use. Nil uses the global provider.
	Tracer trace.Tracer

	// RecordInput records the tool arguments as a span attribute.
	RecordInput bool

	// MaxAttributeSize limits the size of recorded attributes.
	MaxAttributeSize int

	// SpanNamePrefix is prepended to span names.
	SpanNamePrefix string
}

// DefaultTracingConfig returns the default configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		RecordInput:      false,
		MaxAttributeSize: 1024,
		SpanNamePrefix:   "tool.",
	}
}

// Tracing returns middleware that creates an OpenTelemetry span for each
// tool execution.
func Tracing(cfg TracingConfig) middleware.Middleware {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(DefaultTracerName)
	}

	maxSize := cfg.MaxAttributeSize
	if maxSize <= 0 {
		maxSize = 1024
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			ctx, span := tracer.Start(ctx, cfg.SpanNamePrefix+execCtx.Tool.Name(),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(ToolSpanAttributes(execCtx)...),
			)
			defer span.End()

			if cfg.RecordInput && len(execCtx.Input) > 0 {
				span.SetAttributes(attribute.String("tool.input", truncate(string(execCtx.Input), maxSize)))
			}

			result, err := next(ctx, execCtx)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return result, err
			}

			span.SetStatus(codes.Ok, "")
			if result.Outcome != "" {
				span.SetAttributes(attribute.String("tool.outcome", result.Outcome))
			}
			return result, nil
		}
	}
}

// ToolSpanAttributes returns the standard attributes of a tool span.
func ToolSpanAttributes(execCtx *middleware.ExecutionContext) []attribute.KeyValue {
	annotations := execCtx.Tool.Annotations()
	return []attribute.KeyValue{
		attribute.String("tool.call_id", execCtx.CallID),
		attribute.String("tool.name", execCtx.Tool.Name()),
		attribute.Bool("tool.read_only", annotations.ReadOnly),
		attribute.Bool("tool.destructive", annotations.Destructive),
		attribute.Bool("tool.idempotent", annotations.Idempotent),
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...[truncated]"
}
