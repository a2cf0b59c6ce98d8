// Package middleware provides the tool middleware the server wraps around
// every tool call.
package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/domain/tool"
	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
)

// maxLoggedOutput bounds the output written when LogOutput is set.
const maxLoggedOutput = 500

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// Logger receives the entries. Nil uses the package default logger.
	Logger *bolt.Logger
	// LogInput logs the tool arguments. Scripts may contain secrets.
	LogInput bool
	// LogOutput logs the tool output, truncated.
	LogOutput bool
}

// Logging returns middleware that logs tool execution.
func Logging(cfg LoggingConfig) middleware.Middleware {
	logger := func() *bolt.Logger {
		if cfg.Logger != nil {
			return cfg.Logger
		}
		return logging.Get()
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			start := time.Now()
			name := execCtx.Tool.Name()

			entry := logging.NewEvent(logger().Debug()).
				Add(logging.CallID(execCtx.CallID)).
				Add(logging.ToolName(name))
			if cfg.LogInput && len(execCtx.Input) > 0 {
				entry = entry.Add(logging.Str("input", string(execCtx.Input)))
			}
			entry.Msg("executing tool")

			result, err := next(ctx, execCtx)
			duration := time.Since(start)

			if err != nil {
				logging.NewEvent(logger().Error()).
					Add(logging.CallID(execCtx.CallID)).
					Add(logging.ToolName(name)).
					Add(logging.ErrorField(err)).
					Add(logging.Duration(duration)).
					Msg("tool execution failed")
				return result, err
			}

			done := logging.NewEvent(logger().Info()).
				Add(logging.CallID(execCtx.CallID)).
				Add(logging.ToolName(name)).
				Add(logging.Duration(duration))
			if result.Outcome != "" {
				done = done.Add(logging.Outcome(result.Outcome))
			}
			if cfg.LogOutput && len(result.Output) > 0 {
				output := string(result.Output)
				if len(output) > maxLoggedOutput {
					output = output[:maxLoggedOutput] + "..."
				}
				done = done.Add(logging.Str("output", output))
			}
			done.Msg("tool executed")

			return result, err
		}
	}
}
