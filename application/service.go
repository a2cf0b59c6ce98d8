// Package application implements the Checkly tool operations: catalog
// reads, the guarded update workflow, and the triggered-run await workflow.
//
// Both workflows pass the access gate before touching the API and share no
// state, so tool calls may run them concurrently.
package application

import (
	"context"
	"fmt"

	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/domain/policy"
	"github.com/mayankeq/checkly-mcp/domain/tool"
	"github.com/mayankeq/checkly-mcp/infrastructure/checkly"
)

// CheckService is the remote boundary the workflows use.
type CheckService interface {
	ListChecks(ctx context.Context, opts checkly.ListOptions) ([]check.Check, error)
	GetCheck(ctx context.Context, id string) (check.Check, error)
	UpdateCheck(ctx context.Context, id string, updated check.Check) (check.Check, error)
	TriggerCheck(ctx context.Context, id string) (check.TriggerResponse, error)
	GetSession(ctx context.Context, sessionID string) (check.Session, error)
	GetResults(ctx context.Context, id string, limit int) ([]check.Result, error)
}

var _ CheckService = (*checkly.Client)(nil)

// Outcome labels what a tool call did. Mutating outcomes are recorded in
// the audit trail.
const (
	OutcomeDenied         = policy.OutcomeDenied
	OutcomeNoChange       = "no_change"
	OutcomeDryRun         = "dry_run"
	OutcomeApplied        = "applied"
	OutcomeNotTriggerable = "not_triggerable"
	OutcomeTriggered      = "triggered"
	OutcomeCompleted      = "completed"
	OutcomeTimedOut       = "timed_out"
)

// Outcome is the result of a workflow: a label and the payload returned to
// the caller.
type Outcome struct {
	Kind    string
	Payload any
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: %w", tool.ErrInvalidInput, check.ErrEmptyID)
	}
	return nil
}
