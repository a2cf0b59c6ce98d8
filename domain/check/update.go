package check

import (
	"encoding/json"
	"slices"
	"sort"
)

// DisplayLimit is the length above which string values in a diff are
// truncated for display.
const DisplayLimit = 120

// AllowedFrequencies are the run frequencies, in minutes, a check may use.
var AllowedFrequencies = []int{1, 2, 5, 10, 15, 30, 60, 120, 180, 360, 720, 1440}

// ValidFrequency reports whether minutes is an allowed run frequency.
func ValidFrequency(minutes int) bool {
	return slices.Contains(AllowedFrequencies, minutes)
}

// UpdateRequest is a sparse set of proposed changes to a check. Fields left
// absent are neither modified nor reported in the diff.
type UpdateRequest struct {
	Name      Optional[string] `json:"name"`
	Activated Optional[bool]   `json:"activated"`
	Frequency Optional[int]    `json:"frequency"`
	Script    Optional[string] `json:"script"`
}

// IsEmpty reports whether the request proposes no change at all.
func (r UpdateRequest) IsEmpty() bool {
	return !r.Name.IsSet() && !r.Activated.IsSet() && !r.Frequency.IsSet() && !r.Script.IsSet()
}

// Validate checks the proposed values.
func (r UpdateRequest) Validate() error {
	if f, ok := r.Frequency.Get(); ok && !ValidFrequency(f) {
		return ErrInvalidFrequency
	}
	return nil
}

// DiffEntry is the current and proposed value of one changed field.
type DiffEntry struct {
	From any
	To   any
}

// MarshalJSON renders the entry for display, truncating long strings.
func (e DiffEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		From any `json:"from"`
		To   any `json:"to"`
	}{
		From: displayValue(e.From),
		To:   displayValue(e.To),
	})
}

// Diff maps field names to their changes.
type Diff map[string]DiffEntry

// IsEmpty reports whether nothing would change.
func (d Diff) IsEmpty() bool {
	return len(d) == 0
}

// Fields returns the changed field names in sorted order.
func (d Diff) Fields() []string {
	fields := make([]string, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ComputeDiff compares the present fields of req against current.
func ComputeDiff(current Check, req UpdateRequest) Diff {
	diff := make(Diff)

	if v, ok := req.Name.Get(); ok && v != current.Name {
		diff[FieldName] = DiffEntry{From: current.Name, To: v}
	}
	if v, ok := req.Activated.Get(); ok && v != current.Activated {
		diff[FieldActivated] = DiffEntry{From: current.Activated, To: v}
	}
	if v, ok := req.Frequency.Get(); ok && v != current.Frequency {
		diff[FieldFrequency] = DiffEntry{From: current.Frequency, To: v}
	}
	if v, ok := req.Script.Get(); ok {
		if current.Script == nil {
			diff[FieldScript] = DiffEntry{From: nil, To: v}
		} else if *current.Script != v {
			diff[FieldScript] = DiffEntry{From: *current.Script, To: v}
		}
	}

	return diff
}

// Apply returns a copy of current with the present fields of req overlaid.
// Every other field, known or not, is carried over unchanged.
func Apply(current Check, req UpdateRequest) Check {
	out := current.Clone()

	if v, ok := req.Name.Get(); ok {
		out.markDirty(FieldName)
		out.Name = v
	}
	if v, ok := req.Activated.Get(); ok {
		out.markDirty(FieldActivated)
		out.Activated = v
	}
	if v, ok := req.Frequency.Get(); ok {
		out.markDirty(FieldFrequency)
		out.Frequency = v
	}
	if v, ok := req.Script.Get(); ok {
		out.markDirty(FieldScript)
		out.Script = &v
	}

	return out
}

// Truncate shortens s to DisplayLimit characters plus an ellipsis.
func Truncate(s string) string {
	r := []rune(s)
	if len(r) <= DisplayLimit {
		return s
	}
	return string(r[:DisplayLimit]) + "..."
}

func displayValue(v any) any {
	if s, ok := v.(string); ok {
		return Truncate(s)
	}
	return v
}
