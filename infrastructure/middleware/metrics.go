package middleware

import (
	"context"
	"time"

	"github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/domain/tool"
	"github.com/mayankeq/checkly-mcp/infrastructure/telemetry"
)

// Metrics returns middleware that records call counts and latency for every
// tool, and the outcome of every mutating tool that reports one.
func Metrics(metrics telemetry.Metrics) middleware.Middleware {
	if metrics == nil {
		metrics = telemetry.NoopMetricsProvider{}
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			start := time.Now()
			result, err := next(ctx, execCtx)
			duration := time.Since(start)

			name := execCtx.Tool.Name()
			metrics.RecordToolCall(ctx, name, err == nil, duration)
			if err == nil && result.Outcome != "" {
				metrics.RecordGuardedOutcome(ctx, name, result.Outcome)
			}
			if err != nil {
				metrics.RecordError(ctx, "tool", map[string]string{"tool": name})
			}

			if result.Duration == 0 {
				result.Duration = duration
			}
			return result, err
		}
	}
}
