// Package statemachine drives the await loop of a triggered check run
// with a statekit statechart.
//
// The chart is awaiting -> polling -> awaiting ... until the session
// leaves PROGRESS (completed), the deadline passes (timed_out), or a poll
// fails (failed).
package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/mayankeq/checkly-mcp/domain/check"
)

// Phase is a state of the poll machine.
type Phase string

// Poll machine phases.
const (
	PhaseAwaiting  Phase = "awaiting"
	PhasePolling   Phase = "polling"
	PhaseCompleted Phase = "completed"
	PhaseTimedOut  Phase = "timed_out"
	PhaseFailed    Phase = "failed"
)

// Events accepted by the poll machine.
const (
	EventPoll     statekit.EventType = "POLL"
	EventExpire   statekit.EventType = "EXPIRE"
	EventProgress statekit.EventType = "PROGRESS"
	EventFinish   statekit.EventType = "FINISH"
	EventFail     statekit.EventType = "FAIL"
)

const (
	stateAwaiting  = statekit.StateID(PhaseAwaiting)
	statePolling   = statekit.StateID(PhasePolling)
	stateCompleted = statekit.StateID(PhaseCompleted)
	stateTimedOut  = statekit.StateID(PhaseTimedOut)
	stateFailed    = statekit.StateID(PhaseFailed)
)

// PollContext carries the await loop state through the machine.
type PollContext struct {
	SessionID string
	Deadline  time.Time

	// Polls counts session polls issued.
	Polls int
	// Session is the most recently observed session.
	Session *check.Session
	// Err is the failure that ended the loop.
	Err error
}

// NewPollMachine creates the await statechart.
func NewPollMachine() (*statekit.MachineConfig[*PollContext], error) {
	return statekit.NewMachine[*PollContext]("check-run-await").
		WithInitial(stateAwaiting).
		WithContext(&PollContext{}).
		WithAction("recordSession", recordSession).
		WithAction("recordFailure", recordFailure).
		WithGuard("beforeDeadline", guardBeforeDeadline).
		State(stateAwaiting).
			On(EventPoll).Target(statePolling).Guard("beforeDeadline").
			On(EventExpire).Target(stateTimedOut).
			On(EventFail).Target(stateFailed).Do("recordFailure").
			Done().
		State(statePolling).
			On(EventProgress).Target(stateAwaiting).Do("recordSession").
			On(EventFinish).Target(stateCompleted).Do("recordSession").
			On(EventFail).Target(stateFailed).Do("recordFailure").
			Done().
		State(stateCompleted).
			Final().
			Done().
		State(stateTimedOut).
			Final().
			Done().
		State(stateFailed).
			Final().
			Done().
		Build()
}
