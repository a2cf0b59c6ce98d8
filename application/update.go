package application

import (
	"context"
	"fmt"

	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/domain/policy"
	"github.com/mayankeq/checkly-mcp/domain/tool"
	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
)

// UpdateWorkflow changes a check only after computing the diff against
// its live state, and only writes when the caller confirms.
type UpdateWorkflow struct {
	service CheckService
	gate    policy.AccessGate
	config  WorkflowConfig
}

// NewUpdateWorkflow creates the workflow.
func NewUpdateWorkflow(service CheckService, gate policy.AccessGate, opts ...Option) *UpdateWorkflow {
	return &UpdateWorkflow{
		service: service,
		gate:    gate,
		config:  buildConfig(opts),
	}
}

// Update previews or applies req to check id.
//
// A denied gate, an empty diff and an unconfirmed diff all return without
// writing. Fetch and write failures are returned as errors.
func (w *UpdateWorkflow) Update(ctx context.Context, id string, req check.UpdateRequest, confirm bool) (Outcome, error) {
	if decision := w.gate.AuthorizeMutation(); !decision.Allowed {
		logging.Info().
			Add(logging.CheckID(id)).
			Add(logging.Outcome(OutcomeDenied)).
			Msg("update denied by read-only mode")
		return w.finish(ctx, Outcome{Kind: OutcomeDenied, Payload: decision.Denial}), nil
	}

	if err := requireID(id); err != nil {
		return Outcome{}, err
	}
	if err := req.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", tool.ErrInvalidInput, err)
	}

	current, err := w.service.GetCheck(ctx, id)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch check %s: %w", id, err)
	}

	diff := check.ComputeDiff(current, req)
	if diff.IsEmpty() {
		return w.finish(ctx, Outcome{
			Kind:    OutcomeNoChange,
			Payload: NoChangeResult{Message: MessageNoChanges, Diff: diff},
		}), nil
	}

	if !confirm {
		return w.finish(ctx, Outcome{
			Kind: OutcomeDryRun,
			Payload: DryRunResult{
				Message:   MessageDryRun,
				CheckID:   id,
				CheckName: current.Name,
				Diff:      diff,
			},
		}), nil
	}

	updated, err := w.service.UpdateCheck(ctx, id, check.Apply(current, req))
	if err != nil {
		return Outcome{}, fmt.Errorf("update check %s: %w", id, err)
	}

	logging.Info().
		Add(logging.CheckID(id)).
		Add(logging.Str("fields", fmt.Sprint(diff.Fields()))).
		Msg("check updated")

	return w.finish(ctx, Outcome{
		Kind: OutcomeApplied,
		Payload: AppliedResult{
			Message:   MessageApplied,
			CheckID:   id,
			CheckName: updated.Name,
			Diff:      diff,
			UpdatedAt: updated.UpdatedAt,
		},
	}), nil
}

func (w *UpdateWorkflow) finish(ctx context.Context, out Outcome) Outcome {
	w.config.Metrics.RecordGuardedOutcome(ctx, "update_check", out.Kind)
	return out
}
