package memory

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/mayankeq/checkly-mcp/domain/tool"
)

func newTestTool(name string) tool.Tool {
	return tool.NewBuilder(name).
		WithDescription("Test " + name).
		ReadOnly().
		WithHandler(func(_ context.Context, _ json.RawMessage) (tool.Result, error) {
			return tool.NewResult(json.RawMessage(`{}`)), nil
		}).
		MustBuild()
}

func TestNewToolRegistry(t *testing.T) {
	t.Parallel()
	registry := NewToolRegistry()
	if registry.Count() != 0 {
		t.Errorf("NewToolRegistry().Count() = %d, want 0", registry.Count())
	}
	if len(registry.List()) != 0 {
		t.Error("expected empty list")
	}
}

func TestToolRegistry_Register(t *testing.T) {
	t.Parallel()
	registry := NewToolRegistry()

	if err := registry.Register(newTestTool("get_check")); err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
	if err := registry.Register(newTestTool("get_check")); !errors.Is(err, tool.ErrToolExists) {
		t.Errorf("duplicate Register() error = %v, want ErrToolExists", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}
}

func TestToolRegistry_Get(t *testing.T) {
	t.Parallel()
	registry := NewToolRegistry()
	registry.MustRegister(newTestTool("list_checks"))

	got, ok := registry.Get("list_checks")
	if !ok || got.Name() != "list_checks" {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if _, ok := registry.Get("missing"); ok {
		t.Error("Get() returned true for unknown tool")
	}
}

func TestToolRegistry_KeepsRegistrationOrder(t *testing.T) {
	t.Parallel()
	registry := NewToolRegistry()
	want := []string{"list_checks", "get_check", "update_check", "run_check", "get_check_results"}
	for _, name := range want {
		registry.MustRegister(newTestTool(name))
	}

	if got := registry.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	var listed []string
	for _, tl := range registry.List() {
		listed = append(listed, tl.Name())
	}
	if !slices.Equal(listed, want) {
		t.Errorf("List() = %v, want %v", listed, want)
	}
}

func TestToolRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	t.Parallel()
	registry := NewToolRegistry()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	registry.MustRegister(newTestTool("run_check"), newTestTool("run_check"))
}

func TestToolRegistry_Concurrent(t *testing.T) {
	t.Parallel()
	registry := NewToolRegistry()
	registry.MustRegister(newTestTool("get_check"))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = registry.Get("get_check")
			_ = registry.Names()
		}()
	}
	wg.Wait()
}
