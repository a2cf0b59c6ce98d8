package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError is one invalid configuration value.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the problem.
	Message string
	// Err is the sentinel behind the problem, if any.
	Err error
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns the sentinel.
func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every problem found.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// Unwrap exposes each error to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, err := range e {
		out = append(out, err)
	}
	return out
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate checks the configuration. The returned error wraps
// ErrValidationFailed and every sentinel found.
func (c ServerConfig) Validate() error {
	errs := c.Check()
	if !errs.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, errs)
}

// Check returns every validation problem.
func (c ServerConfig) Check() ValidationErrors {
	var errs ValidationErrors
	add := func(path, msg string, err error) {
		errs = append(errs, ValidationError{Path: path, Message: msg, Err: err})
	}

	if c.Credentials.APIKey == "" {
		add("credentials.api_key", ErrMissingCredential.Error(), ErrMissingCredential)
	}
	if c.Credentials.AccountID == "" {
		add("credentials.account_id", ErrMissingAccount.Error(), ErrMissingAccount)
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("api.base_url", "must be an absolute URL", nil)
	}
	if c.API.Timeout < 0 {
		add("api.timeout", "must not be negative", nil)
	}
	if c.API.Rate < 0 {
		add("api.rate", "must not be negative", nil)
	}
	if c.API.Burst < 0 {
		add("api.burst", "must not be negative", nil)
	}
	if c.API.MaxConcurrent < 0 {
		add("api.max_concurrent", "must not be negative", nil)
	}

	if !slices.Contains([]string{"", "trace", "debug", "info", "warn", "warning", "error"}, strings.ToLower(c.Log.Level)) {
		add("log.level", fmt.Sprintf("unknown level %q", c.Log.Level), nil)
	}
	if !slices.Contains([]string{"", "json", "console"}, c.Log.Format) {
		add("log.format", fmt.Sprintf("unknown format %q", c.Log.Format), nil)
	}

	if c.Telemetry.Enabled {
		switch c.Telemetry.Exporter {
		case ExporterOTLP:
			if c.Telemetry.Endpoint == "" {
				add("telemetry.endpoint", "required for the otlp exporter", nil)
			}
		case ExporterStdout, ExporterNoop, "":
		default:
			add("telemetry.exporter", fmt.Sprintf("unknown exporter %q", c.Telemetry.Exporter), nil)
		}
	}

	switch c.Audit.Backend {
	case AuditJSONL, AuditSQLite:
		if c.Audit.Path == "" {
			add("audit.path", fmt.Sprintf("required for the %s backend", c.Audit.Backend), nil)
		}
	case AuditMemory, AuditNone, "":
	default:
		add("audit.backend", fmt.Sprintf("unknown backend %q", c.Audit.Backend), nil)
	}

	return errs
}

// IsCredentialError reports whether err is caused by missing credentials.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrMissingAccount)
}
