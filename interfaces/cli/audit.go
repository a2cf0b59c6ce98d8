package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
	"github.com/mayankeq/checkly-mcp/infrastructure/security/audit"
	"github.com/mayankeq/checkly-mcp/infrastructure/storage/sqlite"
)

// ErrNoAuditHistory is returned by audit list for backends that keep nothing
// after the server exits.
var ErrNoAuditHistory = errors.New("audit backend keeps no history")

type auditListOptions struct {
	configPath string
	tool       string
	checkID    string
	outcome    string
	since      time.Duration
	failed     bool
	limit      int
}

func (a *App) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the audit trail of mutating tool calls",
	}
	cmd.AddCommand(a.newAuditListCmd())
	return cmd
}

func (a *App) newAuditListCmd() *cobra.Command {
	opts := &auditListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded update_check and run_check calls",
		Long: `List recorded update_check and run_check calls, oldest first.

Only the jsonl and sqlite audit backends keep history across restarts.

Examples:
  # The last 20 calls
  checkly-mcp audit list -c checkly-mcp.yaml --limit 20

  # Applied updates to one check in the last day
  checkly-mcp audit list -c checkly-mcp.yaml --check 1234 --outcome applied --since 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.auditList(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.tool, "tool", "", "Only calls of this tool")
	cmd.Flags().StringVar(&opts.checkID, "check", "", "Only calls for this check ID")
	cmd.Flags().StringVar(&opts.outcome, "outcome", "", "Only calls with this outcome (denied, dry_run, applied, ...)")
	cmd.Flags().DurationVar(&opts.since, "since", 0, "Only calls within this long ago")
	cmd.Flags().BoolVar(&opts.failed, "failed", false, "Only calls that returned an error")
	cmd.Flags().IntVar(&opts.limit, "limit", 50, "Maximum number of most recent calls")

	return cmd
}

func (a *App) auditList(ctx context.Context, opts *auditListOptions) error {
	cfg, err := a.loadUnvalidated(opts.configPath)
	if err != nil {
		return err
	}

	filter := audit.Filter{
		ToolName: opts.tool,
		CheckID:  opts.checkID,
		Outcome:  opts.outcome,
		Limit:    opts.limit,
	}
	if opts.since > 0 {
		filter.StartTime = time.Now().Add(-opts.since)
	}
	if opts.failed {
		success := false
		filter.Success = &success
	}

	events, err := readAudit(ctx, cfg.Audit, filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []audit.Event{}
	}
	return a.printJSON(events)
}

func readAudit(ctx context.Context, cfg domainconfig.AuditConfig, filter audit.Filter) ([]audit.Event, error) {
	switch cfg.Backend {
	case domainconfig.AuditJSONL:
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		defer f.Close()
		return audit.ReadJSONLines(f, filter)
	case domainconfig.AuditSQLite:
		store, err := sqlite.NewAuditStore(sqlite.WithDSN(sqlite.FileDSN(cfg.Path)))
		if err != nil {
			return nil, fmt.Errorf("open audit database: %w", err)
		}
		defer store.Close()
		return store.Query(ctx, filter)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoAuditHistory, cfg.Backend)
	}
}
