package check

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestComputeDiff_OnlyPresentFields(t *testing.T) {
	t.Parallel()

	current := decodeCheck(t, apiCheck)

	diff := ComputeDiff(current, UpdateRequest{Frequency: Some(10)})

	if len(diff) != 1 {
		t.Fatalf("len(diff) = %d, want 1", len(diff))
	}
	entry, ok := diff[FieldFrequency]
	if !ok {
		t.Fatal("diff should contain frequency")
	}
	if entry.From != 5 || entry.To != 10 {
		t.Errorf("frequency diff = %v -> %v, want 5 -> 10", entry.From, entry.To)
	}
}

func TestComputeDiff_EqualValuesYieldEmptyDiff(t *testing.T) {
	t.Parallel()

	current := decodeCheck(t, apiCheck)
	req := UpdateRequest{
		Name:      Some(current.Name),
		Activated: Some(current.Activated),
		Frequency: Some(current.Frequency),
		Script:    Some(*current.Script),
	}

	diff := ComputeDiff(current, req)
	if !diff.IsEmpty() {
		t.Errorf("diff = %v, want empty", diff)
	}
}

func TestComputeDiff_ScriptOnScriptlessCheck(t *testing.T) {
	t.Parallel()

	current := decodeCheck(t, `{"id":"api-1","name":"API","activated":true,"frequency":5}`)
	diff := ComputeDiff(current, UpdateRequest{Script: Some("")})

	entry, ok := diff[FieldScript]
	if !ok {
		t.Fatal("setting an empty script on a check without one should be a change")
	}
	if entry.From != nil {
		t.Errorf("From = %v, want nil", entry.From)
	}
}

func TestComputeDiff_AllFields(t *testing.T) {
	t.Parallel()

	current := decodeCheck(t, apiCheck)
	req := UpdateRequest{
		Name:      Some("Renamed"),
		Activated: Some(false),
		Frequency: Some(60),
		Script:    Some("new script"),
	}

	diff := ComputeDiff(current, req)
	want := []string{FieldActivated, FieldFrequency, FieldName, FieldScript}
	got := diff.Fields()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
}

func TestApply_OverlaysOnlyRequestedFields(t *testing.T) {
	t.Parallel()

	current := decodeCheck(t, apiCheck)
	updated := Apply(current, UpdateRequest{Frequency: Some(10), Name: Some("New <name>")})

	before := decodeMap(t, []byte(apiCheck))
	out, err := updated.MarshalJSON()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	after := decodeMap(t, out)

	if string(after[FieldFrequency]) != "10" {
		t.Errorf("frequency = %s, want 10", after[FieldFrequency])
	}
	if string(after[FieldName]) != `"New <name>"` {
		t.Errorf("name = %s, want \"New <name>\"", after[FieldName])
	}
	for key, raw := range before {
		if key == FieldFrequency || key == FieldName {
			continue
		}
		if string(after[key]) != string(raw) {
			t.Errorf("untouched field %s = %s, want %s", key, after[key], raw)
		}
	}

	if current.Frequency != 5 || current.Name != "Homepage" {
		t.Error("Apply should not modify the current check")
	}
}

func TestApply_FullScriptAppliedDespiteTruncatedDiff(t *testing.T) {
	t.Parallel()

	current := decodeCheck(t, apiCheck)
	script := strings.Repeat("x", 500)
	req := UpdateRequest{Script: Some(script)}

	diff := ComputeDiff(current, req)
	display, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(display), script) {
		t.Error("diff display should truncate long scripts")
	}
	if !strings.Contains(string(display), strings.Repeat("x", DisplayLimit)+"...") {
		t.Errorf("diff display = %s, want truncated script with ellipsis", display)
	}

	updated := Apply(current, req)
	if updated.Script == nil || *updated.Script != script {
		t.Error("Apply should use the full script")
	}
	if diff[FieldScript].To != script {
		t.Error("diff should keep the full value, truncating only on display")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"short", "abc", 3},
		{"at limit", strings.Repeat("a", DisplayLimit), DisplayLimit},
		{"over limit", strings.Repeat("a", DisplayLimit+1), DisplayLimit + 3},
		{"multibyte", strings.Repeat("é", DisplayLimit+5), DisplayLimit + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Truncate(tt.input)
			if n := len([]rune(got)); n != tt.want {
				t.Errorf("len(Truncate()) = %d runes, want %d", n, tt.want)
			}
		})
	}
}

func TestUpdateRequest_Decode(t *testing.T) {
	t.Parallel()

	var req UpdateRequest
	if err := json.Unmarshal([]byte(`{"name":"","frequency":null}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if v, ok := req.Name.Get(); !ok || v != "" {
		t.Errorf("Name = (%q, %v), want present empty string", v, ok)
	}
	if req.Frequency.IsSet() {
		t.Error("null frequency should be absent")
	}
	if req.Activated.IsSet() || req.Script.IsSet() {
		t.Error("missing fields should be absent")
	}
	if req.IsEmpty() {
		t.Error("IsEmpty() should be false when name is present")
	}
}

func TestUpdateRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     UpdateRequest
		wantErr bool
	}{
		{"no frequency", UpdateRequest{}, false},
		{"allowed", UpdateRequest{Frequency: Some(15)}, false},
		{"not allowed", UpdateRequest{Frequency: Some(7)}, true},
		{"zero", UpdateRequest{Frequency: Some(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	none := None[int]()
	if none.IsSet() {
		t.Error("None should be absent")
	}
	if none.OrElse(3) != 3 {
		t.Error("OrElse should return fallback for None")
	}

	some := Some(0)
	if v, ok := some.Get(); !ok || v != 0 {
		t.Errorf("Some(0).Get() = (%d, %v)", v, ok)
	}

	out, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(1)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"a":1,"b":null}` {
		t.Errorf("Marshal() = %s", out)
	}
}
