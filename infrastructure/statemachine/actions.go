package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/mayankeq/checkly-mcp/domain/check"
)

// recordSession stores the polled session carried by the event.
// Actions receive **PollContext because the machine context is *PollContext.
func recordSession(ctx **PollContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx
	c.Polls++
	if s, ok := event.Payload.(check.Session); ok {
		c.Session = &s
	}
}

// recordFailure stores the error carried by the event.
func recordFailure(ctx **PollContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if err, ok := event.Payload.(error); ok {
		(*ctx).Err = err
	}
}
