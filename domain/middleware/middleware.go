// Package middleware provides composable middleware for tool execution.
package middleware

import (
	"context"
	"encoding/json"

	"github.com/mayankeq/checkly-mcp/domain/tool"
)

// ExecutionContext contains all information needed for middleware decisions.
type ExecutionContext struct {
	// CallID identifies one tool invocation across log lines, spans and
	// audit records.
	CallID string
	// Tool is the tool being executed.
	Tool tool.Tool
	// Input is the JSON arguments for the tool.
	Input json.RawMessage
	// Vars carries values between middleware for the same call.
	Vars map[string]any
}

// Set stores a value for later middleware in the same call.
func (e *ExecutionContext) Set(key string, value any) {
	if e.Vars == nil {
		e.Vars = make(map[string]any)
	}
	e.Vars[key] = value
}

// Get returns a value stored with Set.
func (e *ExecutionContext) Get(key string) (any, bool) {
	v, ok := e.Vars[key]
	return v, ok
}

// Handler executes a tool and returns its result.
type Handler func(ctx context.Context, execCtx *ExecutionContext) (tool.Result, error)

// Middleware wraps a Handler with additional behavior. It may run code
// before or after next, short-circuit by not calling next, or transform
// results and errors.
type Middleware func(next Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Chain(A, B, C) produces: A -> B -> C -> handler
func Chain(middlewares ...Middleware) Middleware {
	return func(final Handler) Handler {
		handler := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Noop returns a middleware that passes through.
func Noop() Middleware {
	return func(next Handler) Handler {
		return next
	}
}

// Execute is the terminal handler that runs the tool itself.
func Execute(ctx context.Context, execCtx *ExecutionContext) (tool.Result, error) {
	return execCtx.Tool.Execute(ctx, execCtx.Input)
}
