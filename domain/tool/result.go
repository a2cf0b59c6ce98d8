package tool

import (
	"bytes"
	"encoding/json"
	"time"
)

// Result contains the output of a tool execution.
type Result struct {
	// Output is the JSON document returned to the agent.
	Output json.RawMessage `json:"output"`

	// Duration is how long the execution took.
	Duration time.Duration `json:"duration"`

	// Outcome labels what a mutating tool did, for example "dry_run" or
	// "applied". Empty for read-only tools.
	Outcome string `json:"outcome,omitempty"`
}

// NewResult creates a result with the given output.
func NewResult(output json.RawMessage) Result {
	return Result{Output: output}
}

// JSONResult encodes v as indented JSON without HTML escaping, so check
// scripts reach the agent as written.
func JSONResult(v any) (Result, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return Result{}, err
	}
	return Result{Output: bytes.TrimRight(buf.Bytes(), "\n")}, nil
}

// WithOutcome returns a copy of the result labelled with outcome.
func (r Result) WithOutcome(outcome string) Result {
	r.Outcome = outcome
	return r
}

// OutputString returns the output as a string.
func (r Result) OutputString() string {
	return string(r.Output)
}
