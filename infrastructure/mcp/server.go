package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"

	"github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/domain/tool"
)

// DefaultInstructions tells the agent how the mutating tools behave.
const DefaultInstructions = "Tools for inspecting and operating Checkly checks. " +
	"update_check returns a diff unless confirm=true is passed; review the diff before confirming. " +
	"update_check and run_check are refused while the server runs in read-only mode."

// Server exposes the tools of a registry over MCP. Every call runs through
// the configured tool middleware chain.
type Server struct {
	srv      *mcpgo.Server
	registry tool.Registry
	chain    middleware.Middleware
	info     mcpgo.ServerInfo
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Description is an optional server description.
	Description string

	// Instructions provides usage instructions for clients.
	Instructions string

	// Registry holds the tools to expose.
	Registry tool.Registry

	// Middleware wraps every tool call. Nil runs tools directly.
	Middleware *middleware.Registry
}

// NewServer creates an MCP server exposing every tool in cfg.Registry.
func NewServer(cfg ServerConfig) *Server {
	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	chain := middleware.Noop()
	if cfg.Middleware != nil {
		chain = cfg.Middleware.Chain()
	}

	s := &Server{
		srv:      mcpgo.NewServer(info, opts...),
		registry: cfg.Registry,
		chain:    chain,
		info:     info,
	}
	if cfg.Registry != nil {
		for _, t := range cfg.Registry.List() {
			s.register(t)
		}
	}
	return s
}

// register exposes t through mcp-go. Arguments arrive as a JSON object so
// the advertised input schema is an object; the tool decodes its own fields.
func (s *Server) register(t tool.Tool) {
	name := t.Name()
	b := s.srv.Tool(name).Description(t.Description())

	ann := t.Annotations()
	if ann.Title != "" {
		b = b.Title(ann.Title)
	}
	if ann.ReadOnly {
		b = b.ReadOnly()
	}
	if ann.Destructive {
		b = b.Destructive()
	}
	if ann.Idempotent {
		b = b.Idempotent()
	}
	if ann.OpenWorld {
		b = b.OpenWorld()
	}

	b.Handler(func(ctx context.Context, args map[string]json.RawMessage) (string, error) {
		input, err := json.Marshal(args)
		if err != nil {
			return "", fmt.Errorf("%w: %w", tool.ErrInvalidInput, err)
		}
		return s.Call(ctx, name, input)
	})
}

// Call runs the named tool through the middleware chain and returns its
// output text. Each call gets a fresh call id.
func (s *Server) Call(ctx context.Context, name string, input json.RawMessage) (string, error) {
	if s.registry == nil {
		return "", fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}
	t, ok := s.registry.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}

	execCtx := &middleware.ExecutionContext{
		CallID: uuid.NewString(),
		Tool:   t,
		Input:  input,
	}
	result, err := s.chain(middleware.Execute)(ctx, execCtx)
	if err != nil {
		return "", err
	}
	return result.OutputString(), nil
}

// Info returns the advertised server metadata.
func (s *Server) Info() mcpgo.ServerInfo {
	return s.info
}

// Server returns the underlying mcp-go server.
func (s *Server) Server() *mcpgo.Server {
	return s.srv
}

// ServeStdio runs the server over stdin/stdout.
//
//	srv.ServeStdio(ctx, mcp.WithMiddleware(mcp.Recover(), mcp.RequestID()))
func (s *Server) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}

// ServeHTTP runs the server over HTTP with SSE. Transport middleware is
// passed the same way as for ServeStdio.
func (s *Server) ServeHTTP(ctx context.Context, addr string, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeHTTPWithMiddleware(ctx, s.srv, addr, nil, opts...)
}
