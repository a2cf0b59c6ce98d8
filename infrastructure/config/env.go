package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
	"github.com/mayankeq/checkly-mcp/domain/policy"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey    = "CHECKLY_API_KEY"
	EnvAccountID = "CHECKLY_ACCOUNT_ID"
	EnvReadOnly  = policy.ReadOnlyEnv
	EnvAPIURL    = "CHECKLY_API_URL"
	EnvLogLevel  = "CHECKLY_LOG_LEVEL"
	EnvLogFormat = "CHECKLY_LOG_FORMAT"
)

// LookupFunc returns the value of an environment variable and whether it
// is set.
type LookupFunc func(key string) (string, bool)

// OSLookup reads the process environment.
func OSLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapLookup returns a LookupFunc backed by m.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// ApplyEnv overlays the environment on cfg. Credentials and the read-only
// switch come only from here; the other variables override file values
// when set and non-empty.
func ApplyEnv(cfg *domainconfig.ServerConfig, lookup LookupFunc) {
	if lookup == nil {
		lookup = OSLookup
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg.Credentials.APIKey = get(EnvAPIKey)
	cfg.Credentials.AccountID = get(EnvAccountID)

	// Not trimmed: only the exact literal "false" disables read-only mode.
	readOnly, _ := lookup(EnvReadOnly)
	cfg.ReadOnly = policy.ReadOnlyFromEnv(readOnly)

	if v := get(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := get(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
}

var (
	bracketPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)
	simplePattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// envExpander expands environment variables in configuration text.
type envExpander struct {
	lookup LookupFunc
	// strict fails if a referenced variable is not set.
	strict  bool
	missing []string
}

// Expand expands environment variables in the input string.
// Supported patterns:
//   - ${VAR} - expands to the value of VAR
//   - ${VAR:-default} - expands to VAR or "default" if unset or empty
//   - ${VAR:?message} - fails if VAR is unset or empty
//   - $VAR - simple expansion
func (e *envExpander) Expand(input string) (string, error) {
	e.missing = nil
	if e.lookup == nil {
		e.lookup = OSLookup
	}

	result := bracketPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]

		name, modifier, _ := strings.Cut(inner, ":")
		value, exists := e.lookup(name)

		switch {
		case strings.HasPrefix(modifier, "-"):
			if !exists || value == "" {
				return modifier[1:]
			}
		case strings.HasPrefix(modifier, "?"):
			if !exists || value == "" {
				e.missing = append(e.missing, fmt.Sprintf("%s: %s", name, modifier[1:]))
				return match
			}
		default:
			if !exists {
				if e.strict {
					e.missing = append(e.missing, name)
				}
				return ""
			}
		}
		return value
	})

	result = simplePattern.ReplaceAllStringFunc(result, func(match string) string {
		name := match[1:]
		value, exists := e.lookup(name)
		if !exists {
			if e.strict {
				e.missing = append(e.missing, name)
			}
			return ""
		}
		return value
	})

	if len(e.missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(e.missing, ", "))
	}
	return result, nil
}

// ExpandEnv expands environment variables, leaving unset ones empty.
func ExpandEnv(input string, lookup LookupFunc) string {
	e := &envExpander{lookup: lookup}
	result, err := e.Expand(input)
	if err != nil {
		return input
	}
	return result
}

// ExpandEnvStrict expands environment variables and fails on unset ones.
func ExpandEnvStrict(input string, lookup LookupFunc) (string, error) {
	e := &envExpander{lookup: lookup, strict: true}
	return e.Expand(input)
}
