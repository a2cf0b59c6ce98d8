package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"
)

// guardBeforeDeadline admits a poll only while the wake time carried by
// the event has not passed the deadline.
func guardBeforeDeadline(ctx *PollContext, event statekit.Event) bool {
	if ctx == nil {
		return false
	}
	now, ok := event.Payload.(time.Time)
	if !ok {
		return false
	}
	return !now.After(ctx.Deadline)
}
