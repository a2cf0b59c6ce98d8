package statemachine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/mayankeq/checkly-mcp/domain/check"
)

// Poller runs one await loop through the poll machine.
type Poller struct {
	interp *statekit.Interpreter[*PollContext]
	ctx    *PollContext
}

// NewPoller creates a started poller for sessionID that admits polls until
// deadline.
func NewPoller(sessionID string, deadline time.Time) (*Poller, error) {
	machine, err := NewPollMachine()
	if err != nil {
		return nil, fmt.Errorf("build poll machine: %w", err)
	}

	ctx := &PollContext{SessionID: sessionID, Deadline: deadline}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **PollContext) {
		*c = ctx
	})
	interp.Start()

	return &Poller{interp: interp, ctx: ctx}, nil
}

// Phase returns the current phase.
func (p *Poller) Phase() Phase {
	return Phase(p.interp.State().Value)
}

// Wake is called when the pause between polls ends at now. It reports
// whether a poll may be issued; when the deadline has passed the machine
// moves to timed_out instead.
func (p *Poller) Wake(now time.Time) bool {
	p.interp.Send(statekit.Event{Type: EventPoll, Payload: now})
	if p.interp.Matches(statePolling) {
		return true
	}
	p.Expire()
	return false
}

// Expire moves an awaiting machine to timed_out. It is used when the time
// left before the deadline is shorter than a poll interval.
func (p *Poller) Expire() {
	if p.interp.Matches(stateAwaiting) {
		p.interp.Send(statekit.Event{Type: EventExpire})
	}
}

// Deadline returns the time after which no poll is admitted.
func (p *Poller) Deadline() time.Time {
	return p.ctx.Deadline
}

// Observe records a polled session. A session still in progress returns
// the machine to awaiting; any other status completes it.
func (p *Poller) Observe(session check.Session) {
	event := EventFinish
	if !session.Status.IsTerminal() {
		event = EventProgress
	}
	p.interp.Send(statekit.Event{Type: event, Payload: session})
}

// Fail ends the loop with err.
func (p *Poller) Fail(err error) {
	p.interp.Send(statekit.Event{Type: EventFail, Payload: err})
}

// Done reports whether the machine reached a final phase.
func (p *Poller) Done() bool {
	return p.interp.Done()
}

// Stop releases the interpreter.
func (p *Poller) Stop() {
	p.interp.Stop()
}

// Context returns the loop state.
func (p *Poller) Context() *PollContext {
	return p.ctx
}
