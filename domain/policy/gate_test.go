package policy

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReadOnlyFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"true", true},
		{"false", false},
		{"FALSE", true},
		{"False", true},
		{"0", true},
		{"no", true},
		{" false", true},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Parallel()

			if got := ReadOnlyFromEnv(tt.value); got != tt.want {
				t.Errorf("ReadOnlyFromEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestAccessGate_AuthorizeMutation(t *testing.T) {
	t.Parallel()

	t.Run("read-only denies", func(t *testing.T) {
		t.Parallel()

		gate := NewAccessGate(true)
		if !gate.ReadOnly() {
			t.Error("ReadOnly() should be true")
		}

		d := gate.AuthorizeMutation()
		if d.Allowed {
			t.Fatal("mutation should be denied")
		}
		if d.Denial == nil {
			t.Fatal("Denial should be set")
		}
		if !strings.Contains(d.Denial.Hint, "CHECKLY_READ_ONLY=false") {
			t.Errorf("Hint = %q, want mention of CHECKLY_READ_ONLY=false", d.Denial.Hint)
		}

		out, err := json.Marshal(d.Denial)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var payload map[string]string
		if err := json.Unmarshal(out, &payload); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if payload["error"] == "" || payload["hint"] == "" {
			t.Errorf("payload = %v, want error and hint", payload)
		}
	})

	t.Run("writable allows", func(t *testing.T) {
		t.Parallel()

		d := NewAccessGate(false).AuthorizeMutation()
		if !d.Allowed {
			t.Error("mutation should be allowed")
		}
		if d.Denial != nil {
			t.Error("Denial should be nil when allowed")
		}
	})

	t.Run("zero value is read-only", func(t *testing.T) {
		t.Parallel()

		var gate AccessGate
		if gate.AuthorizeMutation().Allowed {
			t.Error("zero-value gate should deny mutations")
		}
	})
}
