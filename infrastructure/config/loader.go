// Package config loads the server configuration from an optional file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
)

// Format represents a configuration file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format. It is parsed as YAML.
	FormatJSON Format = "json"
)

// Loader loads configuration files.
type Loader struct {
	// ExpandEnv enables environment variable expansion in file contents.
	ExpandEnv bool
	// StrictEnv fails if referenced variables are missing.
	StrictEnv bool
	// Lookup resolves environment variables. Defaults to OSLookup.
	Lookup LookupFunc
}

// NewLoader creates a loader that expands variables leniently from the
// process environment.
func NewLoader() *Loader {
	return &Loader{
		ExpandEnv: true,
		Lookup:    OSLookup,
	}
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.StrictEnv = enabled
	}
}

// WithLookup sets the environment lookup.
func WithLookup(lookup LookupFunc) LoaderOption {
	return func(l *Loader) {
		l.Lookup = lookup
	}
}

// NewLoaderWithOptions creates a loader with the specified options.
func NewLoaderWithOptions(opts ...LoaderOption) *Loader {
	l := NewLoader()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile overlays the file at path on base.
func (l *Loader) LoadFile(path string, base domainconfig.ServerConfig) (domainconfig.ServerConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, fmt.Errorf("%w: %s", domainconfig.ErrConfigNotFound, path)
		}
		return base, fmt.Errorf("access config file: %w", err)
	}
	if info.IsDir() {
		return base, fmt.Errorf("%w: %s is a directory", domainconfig.ErrInvalidFormat, path)
	}

	var format Format
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return base, fmt.Errorf("%w: %s", domainconfig.ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return l.Load(f, format, base)
}

// Load overlays the document read from r on base. Keys missing from the
// document keep their base values.
func (l *Loader) Load(r io.Reader, format Format, base domainconfig.ServerConfig) (domainconfig.ServerConfig, error) {
	if format != FormatYAML && format != FormatJSON {
		return base, fmt.Errorf("%w: %s", domainconfig.ErrUnsupportedFormat, format)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}

	text := string(data)
	if l.ExpandEnv {
		e := &envExpander{lookup: l.Lookup, strict: l.StrictEnv}
		if text, err = e.Expand(text); err != nil {
			return base, err
		}
	}

	cfg := base
	dec := yaml.NewDecoder(strings.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: %v", domainconfig.ErrInvalidFormat, err)
	}
	return cfg, nil
}

// LoadString overlays content on base.
func (l *Loader) LoadString(content string, format Format, base domainconfig.ServerConfig) (domainconfig.ServerConfig, error) {
	return l.Load(strings.NewReader(content), format, base)
}

// Resolve builds the effective configuration: defaults, then the file at
// path if non-empty, then the environment. The result is validated.
func Resolve(path string, lookup LookupFunc) (domainconfig.ServerConfig, error) {
	if lookup == nil {
		lookup = OSLookup
	}

	cfg := domainconfig.Default()
	if path != "" {
		var err error
		cfg, err = NewLoaderWithOptions(WithLookup(lookup)).LoadFile(path, cfg)
		if err != nil {
			return cfg, err
		}
	}

	ApplyEnv(&cfg, lookup)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
