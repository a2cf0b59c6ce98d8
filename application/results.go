package application

import (
	"encoding/json"

	"github.com/mayankeq/checkly-mcp/domain/check"
)

// Messages returned to the caller.
const (
	MessageNoChanges      = "No changes detected"
	MessageDryRun         = "Dry run - no changes applied. Call again with confirm=true to apply."
	MessageApplied        = "Check updated successfully"
	MessageNotTriggerable = "No check session was created. The check may be deactivated or belong to a deactivated group."
	MessageTimedOut       = "Check run did not finish within the await timeout and is still in progress. Follow the link or call get_check_results later."
	HintTriggered         = "The check is running. Call run_check with await_result=true to wait for completion, or follow the link."
)

// NoChangeResult is returned when an update would change nothing.
type NoChangeResult struct {
	Message string     `json:"message"`
	Diff    check.Diff `json:"diff"`
}

// DryRunResult previews an update without applying it.
type DryRunResult struct {
	Message   string     `json:"message"`
	CheckID   string     `json:"check_id"`
	CheckName string     `json:"check_name"`
	Diff      check.Diff `json:"diff"`
}

// AppliedResult reports an applied update.
type AppliedResult struct {
	Message   string     `json:"message"`
	CheckID   string     `json:"check_id"`
	CheckName string     `json:"check_name"`
	Diff      check.Diff `json:"diff"`
	UpdatedAt string     `json:"updated_at"`
}

// NotTriggerableResult is returned when a trigger created no session.
type NotTriggerableResult struct {
	Error   string `json:"error"`
	CheckID string `json:"check_id"`
}

// TriggeredResult reports a started run without waiting for it.
type TriggeredResult struct {
	SessionID    string              `json:"session_id"`
	Status       check.SessionStatus `json:"status"`
	CheckName    string              `json:"check_name"`
	RunLocations []string            `json:"run_locations"`
	StartedAt    string              `json:"started_at"`
	Link         string              `json:"link"`
	Hint         string              `json:"hint"`
}

// CompletedResult reports a run that finished while awaited.
type CompletedResult struct {
	SessionID    string              `json:"session_id"`
	CheckID      string              `json:"check_id"`
	CheckName    string              `json:"check_name"`
	Status       check.SessionStatus `json:"status"`
	RunLocations []string            `json:"run_locations"`
	StartedAt    string              `json:"started_at"`
	StoppedAt    *string             `json:"stopped_at"`
	TimeElapsed  *int64              `json:"time_elapsed"`
	Link         string              `json:"link"`
	Results      []json.RawMessage   `json:"results"`
}

// TimedOutResult is returned when an awaited run outlives the deadline.
type TimedOutResult struct {
	SessionID string `json:"session_id"`
	Link      string `json:"link"`
	Message   string `json:"message"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
