package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNoopProvider(t *testing.T) {
	t.Parallel()

	p := NewNoopProvider()

	_, span := p.Tracer("test").Start(context.Background(), "op")
	if span.IsRecording() {
		t.Error("noop span should not record")
	}
	span.End()

	if p.MeterProvider() == nil {
		t.Error("expected non-nil meter provider")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_DefaultIsNoop(t *testing.T) {
	t.Parallel()

	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Exporter() != ExporterNoop {
		t.Errorf("Exporter() = %s, want noop", p.Exporter())
	}
	if len(p.shutdownFuncs) != 0 {
		t.Errorf("shutdownFuncs = %d, want 0", len(p.shutdownFuncs))
	}
}

func TestNew_UnknownExporter(t *testing.T) {
	t.Parallel()

	_, err := New(func(c *Config) { c.Exporter = "zipkin" })
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}
}

// Not parallel: the stdout exporter installs global providers.
func TestNew_StdoutWritesSpans(t *testing.T) {
	var buf bytes.Buffer

	p, err := New(
		WithServiceName("checkly-mcp-test"),
		WithServiceVersion("1.2.3"),
		WithStdout(&buf),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.Tracer("test").Start(context.Background(), "tool.execute")
	if !span.IsRecording() {
		t.Error("span should record")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "tool.execute") {
		t.Errorf("output missing span name: %s", out)
	}
	if !strings.Contains(out, "checkly-mcp-test") {
		t.Errorf("output missing service name: %s", out)
	}
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithOTLP("collector:4317", true),
		WithSampleRate(0.5),
		WithMetricsInterval(0),
	} {
		opt(&cfg)
	}

	if cfg.Exporter != ExporterOTLP || cfg.Endpoint != "collector:4317" || !cfg.Insecure {
		t.Errorf("OTLP settings = %+v", cfg)
	}
	if cfg.SampleRate != 0.5 {
		t.Errorf("SampleRate = %v, want 0.5", cfg.SampleRate)
	}
	if cfg.Output == nil {
		t.Error("Output should default to stderr")
	}
}
