// Package cli provides the checkly-mcp command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	checklymcp "github.com/mayankeq/checkly-mcp"
	infraconfig "github.com/mayankeq/checkly-mcp/infrastructure/config"
)

// Build information set at link time.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	lookup infraconfig.LookupFunc
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: infraconfig.OSLookup,
	}

	app.root = &cobra.Command{
		Use:   "checkly-mcp",
		Short: "MCP server for Checkly monitoring",
		Long: `checkly-mcp exposes Checkly checks to an AI agent over the Model Context
Protocol: list and inspect checks, read their results, trigger runs, and
change their configuration.

The server starts read-only. Set CHECKLY_READ_ONLY=false to allow
update_check and run_check. Updates always show a diff first and are only
written when the agent passes confirm=true.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newServeCmd(),
		app.newConfigCmd(),
		app.newAuditCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithLookup replaces the environment lookup.
func (a *App) WithLookup(lookup infraconfig.LookupFunc) *App {
	a.lookup = lookup
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "checkly-mcp version %s\n", checklymcp.Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
