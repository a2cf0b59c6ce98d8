package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mayankeq/checkly-mcp/domain/middleware"
	"github.com/mayankeq/checkly-mcp/domain/tool"
)

func TestMemoryLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := NewMemoryLogger()

	if err := logger.Log(ctx, Event{EventType: EventToolExecution, ToolName: "update_check", Success: true}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ToolName != "update_check" {
		t.Errorf("ToolName = %s, want update_check", events[0].ToolName)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if events[0].ID == "" {
		t.Error("expected id to be set")
	}
}

func TestMemoryLoggerMaxEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := NewMemoryLogger(WithMaxEvents(5))

	for i := 0; i < 10; i++ {
		_ = logger.Log(ctx, Event{EventType: EventToolExecution, ToolName: "run_check"})
	}

	if got := len(logger.Events()); got != 5 {
		t.Errorf("expected 5 events, got %d", got)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "1", Timestamp: base, EventType: EventToolExecution, ToolName: "update_check", CheckID: "a", Outcome: "dry_run", Success: true},
		{ID: "2", Timestamp: base.Add(time.Minute), EventType: EventAccessDenied, ToolName: "run_check", CheckID: "b", Outcome: "denied", Success: true},
		{ID: "3", Timestamp: base.Add(2 * time.Minute), EventType: EventToolExecution, ToolName: "update_check", CheckID: "a", Success: false, Error: "boom"},
		{ID: "4", Timestamp: base.Add(3 * time.Minute), EventType: EventToolExecution, ToolName: "run_check", CheckID: "a", Outcome: "completed", Success: true},
	}
	failed := false

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"1", "2", "3", "4"}},
		{"tool", Filter{ToolName: "run_check"}, []string{"2", "4"}},
		{"check", Filter{CheckID: "a"}, []string{"1", "3", "4"}},
		{"outcome", Filter{Outcome: "denied"}, []string{"2"}},
		{"type", Filter{EventTypes: []EventType{EventAccessDenied}}, []string{"2"}},
		{"failures", Filter{Success: &failed}, []string{"3"}},
		{"window", Filter{StartTime: base.Add(time.Minute), EndTime: base.Add(2 * time.Minute)}, []string{"2", "3"}},
		{"most recent", Filter{Limit: 2}, []string{"3", "4"}},
		{"limit after match", Filter{CheckID: "a", Limit: 1}, []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.filter.Apply(events)
			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Apply() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestJSONLogger_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)
	ctx := context.Background()

	_ = logger.Log(ctx, Event{EventType: EventToolExecution, ToolName: "update_check", Outcome: "applied", Success: true})
	_ = logger.Log(ctx, Event{EventType: EventAccessDenied, ToolName: "run_check", Outcome: "denied", Success: true})

	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}

	if _, err := logger.Query(ctx, Filter{}); !errors.Is(err, ErrQueryUnsupported) {
		t.Errorf("Query() error = %v, want ErrQueryUnsupported", err)
	}

	events, err := ReadJSONLines(strings.NewReader(buf.String()+"\n"), Filter{Outcome: "applied"})
	if err != nil {
		t.Fatalf("ReadJSONLines() error = %v", err)
	}
	if len(events) != 1 || events[0].ToolName != "update_check" || events[0].ID == "" {
		t.Errorf("events = %+v", events)
	}
}

func TestReadJSONLines_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ReadJSONLines(strings.NewReader("{\"id\":\"1\"}\nnot json\n"), Filter{})
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadJSONLines() error = %v, want line 2 error", err)
	}
}

type stubTool struct {
	name        string
	annotations tool.Annotations
}

func (s stubTool) Name() string                  { return s.name }
func (s stubTool) Description() string           { return "stub" }
func (s stubTool) InputSchema() tool.Schema      { return tool.EmptySchema() }
func (s stubTool) Annotations() tool.Annotations { return s.annotations }
func (s stubTool) Execute(context.Context, json.RawMessage) (tool.Result, error) {
	return tool.Result{}, nil
}

func runMiddleware(t *testing.T, logger Logger, tl tool.Tool, input string, result tool.Result, err error) {
	t.Helper()

	handler := Middleware(logger)(func(context.Context, *middleware.ExecutionContext) (tool.Result, error) {
		return result, err
	})
	execCtx := &middleware.ExecutionContext{CallID: "call-1", Tool: tl, Input: json.RawMessage(input)}
	if _, gotErr := handler(context.Background(), execCtx); !errors.Is(gotErr, err) {
		t.Fatalf("handler error = %v, want %v", gotErr, err)
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	mutating := stubTool{name: "update_check", annotations: tool.Annotations{Destructive: true}}
	readOnly := stubTool{name: "get_check", annotations: tool.Annotations{ReadOnly: true}}

	t.Run("skips read-only tools", func(t *testing.T) {
		t.Parallel()

		logger := NewMemoryLogger()
		runMiddleware(t, logger, readOnly, `{"id":"X"}`, tool.Result{}, nil)
		if n := len(logger.Events()); n != 0 {
			t.Errorf("recorded %d events, want 0", n)
		}
	})

	t.Run("records outcome", func(t *testing.T) {
		t.Parallel()

		logger := NewMemoryLogger()
		runMiddleware(t, logger, mutating, `{"id":"X","frequency":10}`, tool.Result{Outcome: "dry_run"}, nil)

		events := logger.Events()
		if len(events) != 1 {
			t.Fatalf("recorded %d events, want 1", len(events))
		}
		e := events[0]
		if e.EventType != EventToolExecution || e.Outcome != "dry_run" || e.CheckID != "X" || e.CallID != "call-1" {
			t.Errorf("event = %+v", e)
		}
		if len(e.InputHash) != 64 {
			t.Errorf("InputHash = %q, want sha256 hex", e.InputHash)
		}
	})

	t.Run("records denial", func(t *testing.T) {
		t.Parallel()

		logger := NewMemoryLogger()
		runMiddleware(t, logger, mutating, `{"id":"X"}`, tool.Result{Outcome: "denied"}, nil)
		if e := logger.Events()[0]; e.EventType != EventAccessDenied {
			t.Errorf("EventType = %s, want access_denied", e.EventType)
		}
	})

	t.Run("records failure", func(t *testing.T) {
		t.Parallel()

		logger := NewMemoryLogger()
		runMiddleware(t, logger, mutating, `not json`, tool.Result{}, errors.New("api down"))
		e := logger.Events()[0]
		if e.Success || e.Error != "api down" || e.CheckID != "" {
			t.Errorf("event = %+v", e)
		}
	})
}
