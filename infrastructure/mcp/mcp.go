// Package mcp serves the Checkly tools over the Model Context Protocol using
// github.com/felixgeelhaar/mcp-go.
package mcp

import (
	mcpgo "github.com/felixgeelhaar/mcp-go"
)

// Re-export the mcp-go types callers configure.
type (
	// ServeOption configures stdio and HTTP serving.
	ServeOption = mcpgo.ServeOption

	// Middleware wraps JSON-RPC request handling in the transport.
	Middleware = mcpgo.Middleware
)

// Transport middleware from mcp-go, applied to every JSON-RPC request
// through WithMiddleware.
var (
	// WithMiddleware adds transport middleware to serve options.
	WithMiddleware = mcpgo.WithMiddleware

	Recover   = mcpgo.Recover
	RequestID = mcpgo.RequestID
)
