package statemachine

import (
	"errors"
	"testing"
	"time"

	"github.com/mayankeq/checkly-mcp/domain/check"
)

var start = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newPoller(t *testing.T) *Poller {
	t.Helper()

	p, err := NewPoller("s-1", start.Add(120*time.Second))
	if err != nil {
		t.Fatalf("NewPoller() error = %v", err)
	}
	t.Cleanup(p.Stop)
	return p
}

func TestNewPollMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewPollMachine()
	if err != nil {
		t.Fatalf("NewPollMachine() error = %v", err)
	}
	if machine == nil {
		t.Fatal("NewPollMachine() returned nil machine")
	}
}

func TestPoller_StartsAwaiting(t *testing.T) {
	t.Parallel()

	p := newPoller(t)
	if p.Phase() != PhaseAwaiting {
		t.Errorf("Phase() = %s, want %s", p.Phase(), PhaseAwaiting)
	}
	if p.Done() {
		t.Error("Done() should be false before any poll")
	}
	if p.Context().SessionID != "s-1" {
		t.Errorf("SessionID = %s, want s-1", p.Context().SessionID)
	}
}

func TestPoller_CompletesOnTerminalStatus(t *testing.T) {
	t.Parallel()

	p := newPoller(t)

	if !p.Wake(start.Add(3 * time.Second)) {
		t.Fatal("Wake() before deadline should admit a poll")
	}
	if p.Phase() != PhasePolling {
		t.Fatalf("Phase() = %s, want %s", p.Phase(), PhasePolling)
	}

	p.Observe(check.Session{ID: "s-1", Status: check.StatusInProgress})
	if p.Phase() != PhaseAwaiting {
		t.Fatalf("Phase() = %s, want %s after PROGRESS", p.Phase(), PhaseAwaiting)
	}

	if !p.Wake(start.Add(6 * time.Second)) {
		t.Fatal("second Wake() should admit a poll")
	}
	p.Observe(check.Session{ID: "s-1", Status: check.StatusFailed})

	if p.Phase() != PhaseCompleted {
		t.Errorf("Phase() = %s, want %s", p.Phase(), PhaseCompleted)
	}
	if !p.Done() {
		t.Error("Done() should be true once completed")
	}
	ctx := p.Context()
	if ctx.Polls != 2 {
		t.Errorf("Polls = %d, want 2", ctx.Polls)
	}
	if ctx.Session == nil || ctx.Session.Status != check.StatusFailed {
		t.Errorf("Session = %+v, want FAILED", ctx.Session)
	}
}

func TestPoller_TimesOutAfterDeadline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wake time.Duration
		poll bool
	}{
		{"at deadline", 120 * time.Second, true},
		{"past deadline", 121 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newPoller(t)
			if got := p.Wake(start.Add(tt.wake)); got != tt.poll {
				t.Fatalf("Wake() = %v, want %v", got, tt.poll)
			}
			if tt.poll {
				return
			}
			if p.Phase() != PhaseTimedOut {
				t.Errorf("Phase() = %s, want %s", p.Phase(), PhaseTimedOut)
			}
			if !p.Done() {
				t.Error("Done() should be true once timed out")
			}
			if p.Context().Polls != 0 {
				t.Errorf("Polls = %d, want 0", p.Context().Polls)
			}
		})
	}
}

func TestPoller_Expire(t *testing.T) {
	t.Parallel()

	p := newPoller(t)
	if !p.Deadline().Equal(start.Add(120 * time.Second)) {
		t.Errorf("Deadline() = %v", p.Deadline())
	}

	p.Expire()
	if p.Phase() != PhaseTimedOut {
		t.Errorf("Phase() = %s, want %s", p.Phase(), PhaseTimedOut)
	}
	if p.Wake(start.Add(3 * time.Second)) {
		t.Error("Wake() after expiry should not admit a poll")
	}
}

func TestPoller_ExpireWhilePollingIsIgnored(t *testing.T) {
	t.Parallel()

	p := newPoller(t)
	p.Wake(start.Add(3 * time.Second))
	p.Expire()
	if p.Phase() != PhasePolling {
		t.Errorf("Phase() = %s, want %s", p.Phase(), PhasePolling)
	}
}

func TestPoller_Fail(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	t.Run("while polling", func(t *testing.T) {
		t.Parallel()

		p := newPoller(t)
		p.Wake(start.Add(3 * time.Second))
		p.Fail(errBoom)

		if p.Phase() != PhaseFailed {
			t.Errorf("Phase() = %s, want %s", p.Phase(), PhaseFailed)
		}
		if !errors.Is(p.Context().Err, errBoom) {
			t.Errorf("Err = %v, want %v", p.Context().Err, errBoom)
		}
	})

	t.Run("while awaiting", func(t *testing.T) {
		t.Parallel()

		p := newPoller(t)
		p.Fail(errBoom)

		if p.Phase() != PhaseFailed {
			t.Errorf("Phase() = %s, want %s", p.Phase(), PhaseFailed)
		}
	})
}
