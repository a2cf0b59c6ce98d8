package config

import (
	"encoding/json"

	domainconfig "github.com/mayankeq/checkly-mcp/domain/config"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Default              any                    `json:"default,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	Format               string                 `json:"format,omitempty"`
}

// GenerateSchema returns the JSON Schema of the configuration file.
// Credentials and the read-only switch are environment-only and absent.
func GenerateSchema() *JSONSchema {
	return &JSONSchema{
		Schema:               "https://json-schema.org/draft/2020-12/schema",
		ID:                   "https://github.com/mayankeq/checkly-mcp/config.schema.json",
		Title:                "checkly-mcp configuration",
		Description:          "Non-secret settings of the Checkly MCP server",
		Type:                 "object",
		AdditionalProperties: boolPtr(false),
		Properties: map[string]*JSONSchema{
			"api":       apiSchema(),
			"log":       logSchema(),
			"telemetry": telemetrySchema(),
			"audit":     auditSchema(),
		},
	}
}

func apiSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Checkly API client",
		Properties: map[string]*JSONSchema{
			"base_url": {
				Type:        "string",
				Description: "API origin",
				Format:      "uri",
				Default:     domainconfig.DefaultBaseURL,
			},
			"timeout": {
				Type:        "string",
				Description: "Per-request timeout as a Go duration",
				Pattern:     `^[0-9]+(ns|us|ms|s|m|h)$`,
				Default:     domainconfig.DefaultTimeout.String(),
			},
			"rate": {
				Type:        "integer",
				Description: "Requests admitted per second",
				Minimum:     floatPtr(0),
				Default:     domainconfig.DefaultRate,
			},
			"burst": {
				Type:        "integer",
				Description: "Rate limit bucket capacity",
				Minimum:     floatPtr(0),
				Default:     domainconfig.DefaultBurst,
			},
			"max_concurrent": {
				Type:        "integer",
				Description: "Requests in flight at once",
				Minimum:     floatPtr(0),
				Default:     domainconfig.DefaultMaxConcurrent,
			},
		},
	}
}

func logSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Logging",
		Properties: map[string]*JSONSchema{
			"level": {
				Type:    "string",
				Enum:    []string{"trace", "debug", "info", "warn", "error"},
				Default: "info",
			},
			"format": {
				Type:    "string",
				Enum:    []string{"json", "console"},
				Default: "json",
			},
		},
	}
}

func telemetrySchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "OpenTelemetry export",
		Properties: map[string]*JSONSchema{
			"enabled": {
				Type:    "boolean",
				Default: false,
			},
			"exporter": {
				Type: "string",
				Enum: []string{
					domainconfig.ExporterOTLP,
					domainconfig.ExporterStdout,
					domainconfig.ExporterNoop,
				},
				Default: domainconfig.ExporterNoop,
			},
			"endpoint": {
				Type:        "string",
				Description: "OTLP gRPC endpoint, e.g. localhost:4317",
			},
			"insecure": {
				Type:        "boolean",
				Description: "Disable TLS towards the endpoint",
			},
			"service_name": {
				Type:    "string",
				Default: domainconfig.DefaultServiceName,
			},
		},
	}
}

func auditSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Audit trail of mutating tool calls",
		Properties: map[string]*JSONSchema{
			"backend": {
				Type: "string",
				Enum: []string{
					domainconfig.AuditMemory,
					domainconfig.AuditJSONL,
					domainconfig.AuditSQLite,
					domainconfig.AuditNone,
				},
				Default: domainconfig.AuditMemory,
			},
			"path": {
				Type:        "string",
				Description: "File used by the jsonl and sqlite backends",
			},
		},
	}
}

// SchemaJSON returns the indented schema document.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(GenerateSchema(), "", "  ")
}

func floatPtr(f float64) *float64 {
	return &f
}

func boolPtr(b bool) *bool {
	return &b
}
