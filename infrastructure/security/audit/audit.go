// Package audit records mutating tool calls.
//
// The trail is write-only history: nothing in the server reads it back to
// make decisions.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one audited tool call.
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	EventType EventType     `json:"event_type"`
	CallID    string        `json:"call_id,omitempty"`
	ToolName  string        `json:"tool_name"`
	CheckID   string        `json:"check_id,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	InputHash string        `json:"input_hash,omitempty"`
}

// EventType categorizes audit events.
type EventType string

const (
	// EventToolExecution is a mutating call that reached its workflow.
	EventToolExecution EventType = "tool_execution"
	// EventAccessDenied is a mutating call refused by read-only mode.
	EventAccessDenied EventType = "access_denied"
)

// Logger stores audit events.
type Logger interface {
	// Log records an audit event.
	Log(ctx context.Context, event Event) error

	// Query retrieves events matching the filter, oldest first.
	Query(ctx context.Context, filter Filter) ([]Event, error)

	// Close releases resources.
	Close() error
}

// Filter specifies criteria for querying events.
type Filter struct {
	StartTime  time.Time
	EndTime    time.Time
	EventTypes []EventType
	ToolName   string
	CheckID    string
	Outcome    string
	Success    *bool
	// Limit keeps only the most recent matches when positive.
	Limit int
}

// Matches reports whether event passes the filter, ignoring Limit.
func (f Filter) Matches(event Event) bool {
	if !f.StartTime.IsZero() && event.Timestamp.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && event.Timestamp.After(f.EndTime) {
		return false
	}
	if len(f.EventTypes) > 0 && !slices.Contains(f.EventTypes, event.EventType) {
		return false
	}
	if f.ToolName != "" && event.ToolName != f.ToolName {
		return false
	}
	if f.CheckID != "" && event.CheckID != f.CheckID {
		return false
	}
	if f.Outcome != "" && event.Outcome != f.Outcome {
		return false
	}
	if f.Success != nil && event.Success != *f.Success {
		return false
	}
	return true
}

// Apply returns the matching events, keeping the last Limit of them.
func (f Filter) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// Prepare fills in the id and timestamp of event if missing.
func Prepare(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return event
}

// MemoryLogger implements Logger using in-memory storage.
type MemoryLogger struct {
	mu     sync.RWMutex
	events []Event
	maxLen int
}

// MemoryLoggerOption configures the memory logger.
type MemoryLoggerOption func(*MemoryLogger)

// WithMaxEvents sets the maximum number of events to retain.
func WithMaxEvents(max int) MemoryLoggerOption {
	return func(l *MemoryLogger) {
		l.maxLen = max
	}
}

// NewMemoryLogger creates a new in-memory audit logger.
func NewMemoryLogger(opts ...MemoryLoggerOption) *MemoryLogger {
	l := &MemoryLogger{
		events: make([]Event, 0),
		maxLen: 10000,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records an event.
func (l *MemoryLogger) Log(_ context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, Prepare(event))
	if l.maxLen > 0 && len(l.events) > l.maxLen {
		l.events = l.events[len(l.events)-l.maxLen:]
	}
	return nil
}

// Query retrieves events matching the filter.
func (l *MemoryLogger) Query(_ context.Context, filter Filter) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return filter.Apply(l.events), nil
}

// Close releases resources.
func (l *MemoryLogger) Close() error {
	return nil
}

// Events returns all events.
func (l *MemoryLogger) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.events)
}

// JSONLogger appends events as JSON lines to a writer.
type JSONLogger struct {
	mu      sync.Mutex
	writer  io.Writer
	encoder *json.Encoder
}

// NewJSONLogger creates a new JSON lines audit logger.
func NewJSONLogger(writer io.Writer) *JSONLogger {
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	return &JSONLogger{
		writer:  writer,
		encoder: enc,
	}
}

// Log records an event as one JSON line.
func (l *JSONLogger) Log(_ context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.encoder.Encode(Prepare(event))
}

// Query is not supported on a write-only stream; use ReadJSONLines on the
// file instead.
func (l *JSONLogger) Query(_ context.Context, _ Filter) ([]Event, error) {
	return nil, ErrQueryUnsupported
}

// Close closes the writer if it is a Closer.
func (l *JSONLogger) Close() error {
	if closer, ok := l.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// ReadJSONLines reads events written by a JSONLogger and applies filter.
func ReadJSONLines(r io.Reader, filter Filter) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("audit line %d: %w", line, err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return filter.Apply(events), nil
}

// NopLogger discards events.
type NopLogger struct{}

// Log implements Logger.
func (NopLogger) Log(context.Context, Event) error { return nil }

// Query implements Logger.
func (NopLogger) Query(context.Context, Filter) ([]Event, error) { return nil, nil }

// Close implements Logger.
func (NopLogger) Close() error { return nil }
