package check

import "encoding/json"

// SessionStatus is the lifecycle state of a run session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "PROGRESS"
	StatusPassed     SessionStatus = "PASSED"
	StatusFailed     SessionStatus = "FAILED"
)

// IsTerminal reports whether the session has finished.
func (s SessionStatus) IsTerminal() bool {
	return s != StatusInProgress
}

// Session is one asynchronous execution of a check, as reported by the
// check-sessions API.
type Session struct {
	ID           string            `json:"checkSessionId"`
	CheckID      string            `json:"checkId"`
	Name         string            `json:"name"`
	Status       SessionStatus     `json:"status"`
	StartedAt    string            `json:"startedAt"`
	StoppedAt    *string           `json:"stoppedAt,omitempty"`
	TimeElapsed  *int64            `json:"timeElapsed,omitempty"`
	RunLocations []string          `json:"runLocations"`
	Link         string            `json:"checkSessionLink"`
	Results      []json.RawMessage `json:"results,omitempty"`
}

// TriggerResponse is the body returned when triggering checks.
type TriggerResponse struct {
	Sessions []Session `json:"sessions"`
}

// TriggerRequest targets checks to run on demand.
type TriggerRequest struct {
	Target TriggerTarget `json:"target"`
}

// TriggerTarget names the checks to trigger.
type TriggerTarget struct {
	CheckID []string `json:"checkId"`
}

// NewTriggerRequest targets a single check.
func NewTriggerRequest(checkID string) TriggerRequest {
	return TriggerRequest{Target: TriggerTarget{CheckID: []string{checkID}}}
}
