package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	t.Parallel()

	schema := GenerateSchema()
	for _, section := range []string{"api", "log", "telemetry", "audit"} {
		if _, ok := schema.Properties[section]; !ok {
			t.Errorf("schema missing %s section", section)
		}
	}
	if _, ok := schema.Properties["credentials"]; ok {
		t.Error("credentials must not be configurable from a file")
	}
}

func TestSchemaJSON(t *testing.T) {
	t.Parallel()

	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", doc["additionalProperties"])
	}
}
