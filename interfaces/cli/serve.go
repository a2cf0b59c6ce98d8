package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	checklymcp "github.com/mayankeq/checkly-mcp"
	"github.com/mayankeq/checkly-mcp/application"
	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
	domainmw "github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/infrastructure/checkly"
	infraconfig "github.com/mayankeq/checkly-mcp/infrastructure/config"
	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
	"github.com/mayankeq/checkly-mcp/infrastructure/mcp"
	mw "github.com/mayankeq/checkly-mcp/infrastructure/middleware"
	"github.com/mayankeq/checkly-mcp/infrastructure/observability"
	"github.com/mayankeq/checkly-mcp/infrastructure/resilience"
	"github.com/mayankeq/checkly-mcp/infrastructure/security/audit"
	"github.com/mayankeq/checkly-mcp/infrastructure/storage/memory"
	"github.com/mayankeq/checkly-mcp/infrastructure/storage/sqlite"
	"github.com/mayankeq/checkly-mcp/infrastructure/telemetry"
	"github.com/mayankeq/checkly-mcp/infrastructure/tools"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ErrUnknownTransport is returned for a --transport other than stdio or http.
var ErrUnknownTransport = errors.New("unknown transport")

type serveOptions struct {
	configPath string
	transport  string
	addr       string
}

func (a *App) newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server.

Credentials are read from CHECKLY_API_KEY and CHECKLY_ACCOUNT_ID. Settings
without secrets (logging, telemetry, audit trail, rate limits) may come from a
YAML file; environment variables override it.

Examples:
  # Serve over stdio, read-only
  checkly-mcp serve

  # Serve over HTTP with mutations enabled
  CHECKLY_READ_ONLY=false checkly-mcp serve --transport http --addr :8080

  # Use a configuration file
  checkly-mcp serve -c checkly-mcp.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&opts.transport, "transport", "t", TransportStdio, "Transport: stdio or http")
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address for the http transport")

	return cmd
}

func (a *App) serve(ctx context.Context, opts *serveOptions) error {
	if !slices.Contains([]string{TransportStdio, TransportHTTP}, opts.transport) {
		return fmt.Errorf("%w: %q", ErrUnknownTransport, opts.transport)
	}

	cfg, err := infraconfig.Resolve(opts.configPath, a.lookup)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(infraconfig.NewBuilder(cfg).LoggingConfig(a.stderr))

	st, err := buildStack(cfg, a.stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("shutdown failed")
		}
	}()

	logging.Info().
		Add(logging.Str("version", checklymcp.Version)).
		Add(logging.Str("transport", opts.transport)).
		Add(logging.ReadOnly(cfg.ReadOnly)).
		Add(logging.Str("audit", cfg.Audit.Backend)).
		Msg("starting checkly-mcp")

	withMiddleware := mcp.WithMiddleware(st.transport...)
	if opts.transport == TransportHTTP {
		err = st.server.ServeHTTP(ctx, opts.addr, withMiddleware)
	} else {
		err = st.server.ServeStdio(ctx, withMiddleware)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve %s: %w", opts.transport, err)
	}
	return nil
}

// stack is the wired server and the resources released on exit.
type stack struct {
	server    *mcp.Server
	transport []mcp.Middleware
	audit     audit.Logger
	closers   []func(context.Context) error
}

// Close releases resources in reverse order of acquisition.
func (s *stack) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range slices.Backward(s.closers) {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildStack wires every component from a validated configuration.
func buildStack(cfg domainconfig.ServerConfig, stderr io.Writer) (_ *stack, err error) {
	builder := infraconfig.NewBuilder(cfg)
	st := &stack{}
	defer func() {
		if err != nil {
			_ = st.Close(context.Background())
		}
	}()

	provider, err := observability.New(builder.ObservabilityOptions(checklymcp.Version, stderr)...)
	if err != nil {
		return nil, fmt.Errorf("set up telemetry: %w", err)
	}
	st.closers = append(st.closers, provider.Shutdown)

	metrics := telemetry.NewMetricsProvider(telemetry.MetricsConfig{
		MeterProvider: provider.MeterProvider(),
		MeterVersion:  checklymcp.Version,
	})
	if err := metrics.Error(); err != nil {
		return nil, fmt.Errorf("set up metrics: %w", err)
	}

	client, err := checkly.New(builder.ClientConfig(),
		checkly.WithGuard(resilience.NewGuard(builder.GuardConfig())),
		checkly.WithTracer(provider.Tracer("github.com/mayankeq/checkly-mcp/infrastructure/checkly")),
		checkly.WithMetrics(metrics),
		checkly.WithUserAgent("checkly-mcp/"+checklymcp.Version),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkly client: %w", err)
	}

	auditLogger, err := openAuditLogger(cfg.Audit)
	if err != nil {
		return nil, err
	}
	st.audit = auditLogger
	st.closers = append(st.closers, func(context.Context) error { return auditLogger.Close() })

	gate := builder.Gate()
	registry := memory.NewToolRegistry()
	registry.MustRegister(tools.All(
		application.NewCatalog(client),
		application.NewUpdateWorkflow(client, gate, application.WithMetrics(metrics)),
		application.NewRunWorkflow(client, gate, application.WithMetrics(metrics)),
	)...)

	tracing := mw.DefaultTracingConfig()
	tracing.Tracer = provider.Tracer(mw.DefaultTracerName)
	chain := domainmw.NewRegistry().Use(
		mw.Logging(mw.LoggingConfig{}),
		mw.Tracing(tracing),
		mw.Metrics(metrics),
		audit.Middleware(auditLogger),
	)

	st.server = mcp.NewServer(mcp.ServerConfig{
		Name:         "checkly-mcp",
		Version:      checklymcp.Version,
		Description:  "Checkly monitoring checks: list, inspect, update, run and read results",
		Instructions: mcp.DefaultInstructions,
		Registry:     registry,
		Middleware:   chain,
	})
	st.transport = []mcp.Middleware{mcp.Recover(), mcp.RequestID()}

	return st, nil
}

// openAuditLogger opens the configured audit backend for writing.
func openAuditLogger(cfg domainconfig.AuditConfig) (audit.Logger, error) {
	switch cfg.Backend {
	case domainconfig.AuditMemory, "":
		return audit.NewMemoryLogger(), nil
	case domainconfig.AuditNone:
		return audit.NopLogger{}, nil
	case domainconfig.AuditJSONL:
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		return audit.NewJSONLogger(f), nil
	case domainconfig.AuditSQLite:
		store, err := sqlite.NewAuditStore(sqlite.WithDSN(sqlite.FileDSN(cfg.Path)))
		if err != nil {
			return nil, fmt.Errorf("open audit database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
	}
}
