package resilience

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGuard_Do(t *testing.T) {
	t.Parallel()

	g := NewGuard(DefaultGuardConfig())
	resp, err := g.Do(context.Background(), func(context.Context) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK}, nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestGuard_DoDoesNotRetry(t *testing.T) {
	t.Parallel()

	g := NewGuardWithOptions(WithRate(100), WithBurst(100))
	errBoom := errors.New("boom")
	var calls atomic.Int32

	_, err := g.Do(context.Background(), func(context.Context) (*http.Response, error) {
		calls.Add(1)
		return nil, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("Do() error = %v, want %v", err, errBoom)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestGuard_Concurrent(t *testing.T) {
	t.Parallel()

	g := NewGuardWithOptions(WithMaxConcurrent(4), WithRate(1000), WithBurst(1000))

	var wg sync.WaitGroup
	var ok atomic.Int32
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Do(context.Background(), func(context.Context) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusNoContent}, nil
			}); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	if ok.Load() == 0 {
		t.Error("at least some requests should be admitted")
	}
}

func TestNewGuard_Defaults(t *testing.T) {
	t.Parallel()

	if g := NewGuard(GuardConfig{}); g == nil {
		t.Fatal("NewGuard() returned nil")
	}
}
