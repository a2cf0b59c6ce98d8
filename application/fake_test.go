package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/mayankeq/checkly-mcp/domain/check"
	"github.com/mayankeq/checkly-mcp/infrastructure/checkly"
)

// fakeService is an in-memory Checkly API that counts calls.
type fakeService struct {
	mu sync.Mutex

	checks   map[string]check.Check
	sessions []check.Session // successive GetSession responses; the last repeats
	trigger  check.TriggerResponse
	results  []check.Result

	getErr     error
	updateErr  error
	triggerErr error
	pollErr    error
	pollErrAt  int

	listCalls    int
	getCalls     int
	updateCalls  int
	triggerCalls int
	pollCalls    int
	resultCalls  int

	lastList    checkly.ListOptions
	lastLimit   int
	lastWritten check.Check
	writtenJSON []byte
}

func newFakeService() *fakeService {
	return &fakeService{checks: make(map[string]check.Check)}
}

func (f *fakeService) addCheck(t *testing.T, raw string) check.Check {
	t.Helper()

	var c check.Check
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	f.mu.Lock()
	f.checks[c.ID] = c
	f.mu.Unlock()
	return c
}

func (f *fakeService) ListChecks(_ context.Context, opts checkly.ListOptions) ([]check.Check, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	f.lastList = opts
	out := make([]check.Check, 0, len(f.checks))
	for _, id := range sortedIDs(f.checks) {
		out = append(out, f.checks[id])
	}
	return out, nil
}

func (f *fakeService) GetCheck(_ context.Context, id string) (check.Check, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++
	if f.getErr != nil {
		return check.Check{}, f.getErr
	}
	c, ok := f.checks[id]
	if !ok {
		return check.Check{}, &checkly.APIError{Method: "GET", Path: "/v1/checks/" + id, StatusCode: 404, Body: `{"message":"Not Found"}`}
	}
	return c.Clone(), nil
}

func (f *fakeService) UpdateCheck(_ context.Context, id string, updated check.Check) (check.Check, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	if f.updateErr != nil {
		return check.Check{}, f.updateErr
	}
	data, err := updated.MarshalJSON()
	if err != nil {
		return check.Check{}, err
	}
	f.lastWritten = updated
	f.writtenJSON = data

	var stored check.Check
	if err := json.Unmarshal(data, &stored); err != nil {
		return check.Check{}, err
	}
	stored.UpdatedAt = "2026-10-17T12:00:00.000Z"
	f.checks[id] = stored
	return stored, nil
}

func (f *fakeService) TriggerCheck(_ context.Context, _ string) (check.TriggerResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.triggerCalls++
	if f.triggerErr != nil {
		return check.TriggerResponse{}, f.triggerErr
	}
	return f.trigger, nil
}

func (f *fakeService) GetSession(ctx context.Context, _ string) (check.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pollCalls++
	if err := ctx.Err(); err != nil {
		return check.Session{}, err
	}
	if f.pollErr != nil && f.pollCalls >= f.pollErrAt {
		return check.Session{}, f.pollErr
	}
	if len(f.sessions) == 0 {
		return check.Session{}, errors.New("no session scripted")
	}
	i := f.pollCalls - 1
	if i >= len(f.sessions) {
		i = len(f.sessions) - 1
	}
	return f.sessions[i], nil
}

func (f *fakeService) GetResults(_ context.Context, _ string, limit int) ([]check.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resultCalls++
	f.lastLimit = limit
	return f.results, nil
}

func (f *fakeService) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + f.getCalls + f.updateCalls + f.triggerCalls + f.pollCalls + f.resultCalls
}

func sortedIDs(m map[string]check.Check) []string {
	return slices.Sorted(maps.Keys(m))
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
