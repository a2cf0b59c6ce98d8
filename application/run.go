package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/domain/policy"
	"github.com/mayankeq/checkly-mcp/infrastructure/logging"
	"github.com/mayankeq/checkly-mcp/infrastructure/statemachine"
)

// RunWorkflow triggers an on-demand run of a check and optionally waits
// for it to finish.
type RunWorkflow struct {
	service CheckService
	gate    policy.AccessGate
	config  WorkflowConfig
}

// NewRunWorkflow creates the workflow.
func NewRunWorkflow(service CheckService, gate policy.AccessGate, opts ...Option) *RunWorkflow {
	return &RunWorkflow{
		service: service,
		gate:    gate,
		config:  buildConfig(opts),
	}
}

// Run triggers check id. Without await it returns as soon as the session
// exists. With await it polls the session until it leaves PROGRESS or the
// await timeout passes.
func (w *RunWorkflow) Run(ctx context.Context, id string, await bool) (Outcome, error) {
	if decision := w.gate.AuthorizeMutation(); !decision.Allowed {
		logging.Info().
			Add(logging.CheckID(id)).
			Add(logging.Outcome(OutcomeDenied)).
			Msg("run denied by read-only mode")
		return w.finish(ctx, Outcome{Kind: OutcomeDenied, Payload: decision.Denial}), nil
	}

	if err := requireID(id); err != nil {
		return Outcome{}, err
	}

	resp, err := w.service.TriggerCheck(ctx, id)
	if err != nil {
		return Outcome{}, fmt.Errorf("trigger check %s: %w", id, err)
	}
	if len(resp.Sessions) == 0 {
		return w.finish(ctx, Outcome{
			Kind:    OutcomeNotTriggerable,
			Payload: NotTriggerableResult{Error: MessageNotTriggerable, CheckID: id},
		}), nil
	}

	session := resp.Sessions[0]
	logging.Info().
		Add(logging.CheckID(id)).
		Add(logging.SessionID(session.ID)).
		Msg("check run triggered")

	if !await {
		return w.finish(ctx, Outcome{
			Kind: OutcomeTriggered,
			Payload: TriggeredResult{
				SessionID:    session.ID,
				Status:       session.Status,
				CheckName:    session.Name,
				RunLocations: nonNil(session.RunLocations),
				StartedAt:    session.StartedAt,
				Link:         session.Link,
				Hint:         HintTriggered,
			},
		}), nil
	}

	out, err := w.await(ctx, id, session)
	if err != nil {
		return Outcome{}, err
	}
	return w.finish(ctx, out), nil
}

// await drives the poll machine until the session completes or the
// deadline passes. Poll failures end the loop without retry.
func (w *RunWorkflow) await(ctx context.Context, id string, triggered check.Session) (Outcome, error) {
	clk := w.config.Clock
	poller, err := statemachine.NewPoller(triggered.ID, clk.Now().Add(w.config.AwaitTimeout))
	if err != nil {
		return Outcome{}, err
	}
	defer poller.Stop()

	for {
		// The last pause is cut short so the timeout lands on the deadline.
		wait := w.config.PollInterval
		remaining := poller.Deadline().Sub(clk.Now())
		lastLap := remaining < wait
		if lastLap {
			if remaining <= 0 {
				return w.timedOut(poller, triggered), nil
			}
			wait = remaining
		}

		select {
		case <-ctx.Done():
			poller.Fail(ctx.Err())
			return Outcome{}, fmt.Errorf("await check session %s: %w", triggered.ID, ctx.Err())
		case now := <-clk.After(wait):
			if lastLap || !poller.Wake(now) {
				return w.timedOut(poller, triggered), nil
			}
		}

		current, err := w.service.GetSession(ctx, triggered.ID)
		if err != nil {
			poller.Fail(err)
			return Outcome{}, fmt.Errorf("poll check session %s: %w", triggered.ID, err)
		}
		w.config.Metrics.RecordPollIteration(ctx, string(current.Status))
		logging.Debug().
			Add(logging.SessionID(triggered.ID)).
			Add(logging.SessionStatus(string(current.Status))).
			Msg("check session polled")

		poller.Observe(current)
		if poller.Phase() == statemachine.PhaseCompleted {
			return Outcome{Kind: OutcomeCompleted, Payload: completion(id, triggered, current)}, nil
		}
	}
}

func (w *RunWorkflow) timedOut(poller *statemachine.Poller, triggered check.Session) Outcome {
	poller.Expire()
	logging.Info().
		Add(logging.SessionID(triggered.ID)).
		Add(logging.Int("polls", poller.Context().Polls)).
		Msg("check run await timed out")
	return Outcome{
		Kind: OutcomeTimedOut,
		Payload: TimedOutResult{
			SessionID: triggered.ID,
			Link:      triggered.Link,
			Message:   MessageTimedOut,
		},
	}
}

func completion(id string, triggered, current check.Session) CompletedResult {
	checkID := current.CheckID
	if checkID == "" {
		checkID = id
	}
	name := current.Name
	if name == "" {
		name = triggered.Name
	}
	link := current.Link
	if link == "" {
		link = triggered.Link
	}
	results := current.Results
	if results == nil {
		results = make([]json.RawMessage, 0)
	}
	sessionID := current.ID
	if sessionID == "" {
		sessionID = triggered.ID
	}

	return CompletedResult{
		SessionID:    sessionID,
		CheckID:      checkID,
		CheckName:    name,
		Status:       current.Status,
		RunLocations: nonNil(current.RunLocations),
		StartedAt:    current.StartedAt,
		StoppedAt:    current.StoppedAt,
		TimeElapsed:  current.TimeElapsed,
		Link:         link,
		Results:      results,
	}
}

func (w *RunWorkflow) finish(ctx context.Context, out Outcome) Outcome {
	w.config.Metrics.RecordGuardedOutcome(ctx, "run_check", out.Kind)
	return out
}
