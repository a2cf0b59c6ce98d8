package tool

import (
	"encoding/json"
	"fmt"
)

// Schema wraps the JSON Schema of a tool's arguments.
type Schema struct {
	raw      json.RawMessage
	required []string
}

// Property describes one argument in an object schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`
	Minimum     *int   `json:"minimum,omitempty"`
	Maximum     *int   `json:"maximum,omitempty"`
}

// EmptySchema returns a schema for a tool that takes no arguments.
func EmptySchema() Schema {
	return ObjectSchema(nil)
}

// ObjectSchema returns a schema for an object with the given properties.
// Validate enforces that required properties are present.
func ObjectSchema(properties map[string]Property, required ...string) Schema {
	if properties == nil {
		properties = map[string]Property{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw, required: required}
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	if s.raw == nil {
		return json.RawMessage(`{}`)
	}
	return s.raw
}

// Validate checks that data is a JSON object carrying every required
// property. Empty input counts as an empty object.
func (s Schema) Validate(data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(data, &args); err != nil {
		return fmt.Errorf("%w: arguments must be a JSON object", ErrInvalidInput)
	}
	for _, name := range s.required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("%w: missing required argument %q", ErrInvalidInput, name)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	return s.Raw(), nil
}
