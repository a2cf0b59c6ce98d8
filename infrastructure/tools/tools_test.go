package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mayankeq/checkly-mcp/application"
	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/domain/tool"
	"github.com/mayankeq/checkly-mcp/infrastructure/tools"
)

type fakeReader struct {
	query   application.ListQuery
	id      string
	limit   int
	check   check.Check
	results []check.ResultSummary
	err     error
}

func (f *fakeReader) ListChecks(_ context.Context, q application.ListQuery) ([]check.Summary, error) {
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return []check.Summary{f.check.Summarize()}, nil
}

func (f *fakeReader) GetCheck(_ context.Context, id string) (check.Check, error) {
	f.id = id
	return f.check, f.err
}

func (f *fakeReader) GetResults(_ context.Context, id string, limit int) ([]check.ResultSummary, error) {
	f.id, f.limit = id, limit
	return f.results, f.err
}

type fakeUpdater struct {
	id      string
	req     check.UpdateRequest
	confirm bool
	out     application.Outcome
	err     error
}

func (f *fakeUpdater) Update(_ context.Context, id string, req check.UpdateRequest, confirm bool) (application.Outcome, error) {
	f.id, f.req, f.confirm = id, req, confirm
	return f.out, f.err
}

type fakeRunner struct {
	id    string
	await bool
	out   application.Outcome
	err   error
}

func (f *fakeRunner) Run(_ context.Context, id string, await bool) (application.Outcome, error) {
	f.id, f.await = id, await
	return f.out, f.err
}

func execute(t *testing.T, tl tool.Tool, input string) (tool.Result, error) {
	t.Helper()
	return tl.Execute(context.Background(), json.RawMessage(input))
}

func TestAll(t *testing.T) {
	t.Parallel()

	all := tools.All(&fakeReader{}, &fakeUpdater{}, &fakeRunner{})
	var names []string
	for _, tl := range all {
		names = append(names, tl.Name())
	}
	want := []string{"list_checks", "get_check", "update_check", "run_check", "get_check_results"}
	if !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}

	mutating := map[string]bool{"update_check": true, "run_check": true}
	for _, tl := range all {
		if got := tl.Annotations().Mutating(); got != mutating[tl.Name()] {
			t.Errorf("%s Mutating() = %v", tl.Name(), got)
		}
		if tl.Description() == "" {
			t.Errorf("%s has no description", tl.Name())
		}
		var schema map[string]any
		if err := json.Unmarshal(tl.InputSchema().Raw(), &schema); err != nil || schema["type"] != "object" {
			t.Errorf("%s schema = %s", tl.Name(), tl.InputSchema().Raw())
		}
	}
}

func TestListChecks(t *testing.T) {
	t.Parallel()

	group := int64(12)
	reader := &fakeReader{check: check.Check{ID: "X", Name: "Homepage", CheckType: "BROWSER", GroupID: &group}}
	result, err := execute(t, tools.ListChecks(reader), `{"type":"BROWSER","group_id":12,"limit":50}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.query.Type != "BROWSER" || reader.query.Limit != 50 || reader.query.GroupID == nil || *reader.query.GroupID != 12 {
		t.Errorf("query = %+v", reader.query)
	}

	var summaries []check.Summary
	if err := json.Unmarshal(result.Output, &summaries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "X" {
		t.Errorf("summaries = %+v", summaries)
	}
	if result.Outcome != "" {
		t.Errorf("read tool outcome = %q", result.Outcome)
	}
}

func TestListChecks_EmptyInput(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{}
	if _, err := execute(t, tools.ListChecks(reader), ``); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.query.Limit != 0 || reader.query.Type != "" || reader.query.GroupID != nil {
		t.Errorf("query = %+v, want zero", reader.query)
	}
}

func TestGetCheck_KeepsScriptUnescaped(t *testing.T) {
	t.Parallel()

	var ch check.Check
	if err := json.Unmarshal([]byte(`{"id":"X","script":"if (a < b && c > d) {}","runtimeId":"2025.04"}`), &ch); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	reader := &fakeReader{check: ch}

	result, err := execute(t, tools.GetCheck(reader), `{"id":"X"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.id != "X" {
		t.Errorf("id = %q", reader.id)
	}
	out := result.OutputString()
	if !strings.Contains(out, `a < b && c > d`) {
		t.Errorf("script escaped or missing: %s", out)
	}
	if !strings.Contains(out, `"runtimeId": "2025.04"`) {
		t.Errorf("extra field missing: %s", out)
	}
}

func TestGetCheckResults(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{results: []check.ResultSummary{{ID: "r1", Passed: true}}}
	result, err := execute(t, tools.GetCheckResults(reader), `{"id":"X","limit":5}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.id != "X" || reader.limit != 5 {
		t.Errorf("id, limit = %q, %d", reader.id, reader.limit)
	}
	if !strings.Contains(result.OutputString(), `"passed": true`) {
		t.Errorf("output = %s", result.OutputString())
	}
}

func TestUpdateCheck_DecodesSparseRequest(t *testing.T) {
	t.Parallel()

	updater := &fakeUpdater{out: application.Outcome{
		Kind:    application.OutcomeDryRun,
		Payload: application.DryRunResult{Message: "Dry run", CheckID: "X"},
	}}
	result, err := execute(t, tools.UpdateCheck(updater), `{"id":"X","frequency":10,"script":"","name":null}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updater.id != "X" || updater.confirm {
		t.Errorf("id, confirm = %q, %v", updater.id, updater.confirm)
	}
	if f, ok := updater.req.Frequency.Get(); !ok || f != 10 {
		t.Errorf("frequency = %v, %v", f, ok)
	}
	if s, ok := updater.req.Script.Get(); !ok || s != "" {
		t.Errorf("script = %q, %v; want present and empty", s, ok)
	}
	if updater.req.Name.IsSet() || updater.req.Activated.IsSet() {
		t.Error("absent fields decoded as present")
	}
	if result.Outcome != application.OutcomeDryRun {
		t.Errorf("outcome = %q", result.Outcome)
	}
}

func TestUpdateCheck_Confirm(t *testing.T) {
	t.Parallel()

	updater := &fakeUpdater{out: application.Outcome{Kind: application.OutcomeApplied, Payload: map[string]string{}}}
	if _, err := execute(t, tools.UpdateCheck(updater), `{"id":"X","activated":false,"confirm":true}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updater.confirm {
		t.Error("confirm not passed through")
	}
	if a, ok := updater.req.Activated.Get(); !ok || a {
		t.Errorf("activated = %v, %v", a, ok)
	}
}

func TestRunCheck(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{out: application.Outcome{
		Kind:    application.OutcomeTimedOut,
		Payload: application.TimedOutResult{SessionID: "S1", Message: "still running"},
	}}
	result, err := execute(t, tools.RunCheck(runner), `{"id":"X","await_result":true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.id != "X" || !runner.await {
		t.Errorf("id, await = %q, %v", runner.id, runner.await)
	}
	if result.Outcome != application.OutcomeTimedOut {
		t.Errorf("outcome = %q", result.Outcome)
	}
	if !strings.Contains(result.OutputString(), `"session_id": "S1"`) {
		t.Errorf("output = %s", result.OutputString())
	}
}

func TestTools_InvalidInput(t *testing.T) {
	t.Parallel()

	reader, updater, runner := &fakeReader{}, &fakeUpdater{}, &fakeRunner{}
	tests := []struct {
		name  string
		tool  tool.Tool
		input string
	}{
		{"missing id", tools.GetCheck(reader), `{}`},
		{"not an object", tools.ListChecks(reader), `[1,2]`},
		{"wrong type", tools.UpdateCheck(updater), `{"id":"X","frequency":"ten"}`},
		{"run without id", tools.RunCheck(runner), `{"await_result":true}`},
		{"results bad limit", tools.GetCheckResults(reader), `{"id":"X","limit":"many"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := execute(t, tt.tool, tt.input)
			if !errors.Is(err, tool.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestTools_PropagateErrors(t *testing.T) {
	t.Parallel()

	remote := errors.New("PUT /v1/checks/X: 500")
	if _, err := execute(t, tools.UpdateCheck(&fakeUpdater{err: remote}), `{"id":"X","name":"n","confirm":true}`); !errors.Is(err, remote) {
		t.Errorf("update err = %v", err)
	}
	if _, err := execute(t, tools.RunCheck(&fakeRunner{err: remote}), `{"id":"X"}`); !errors.Is(err, remote) {
		t.Errorf("run err = %v", err)
	}
	if _, err := execute(t, tools.ListChecks(&fakeReader{err: remote}), `{}`); !errors.Is(err, remote) {
		t.Errorf("list err = %v", err)
	}
}
