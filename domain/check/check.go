// Package check provides the domain model for Checkly checks, their
// guarded updates, and their run sessions.
package check

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// JSON field names of the check fields this package models.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldCheckType = "checkType"
	FieldActivated = "activated"
	FieldFrequency = "frequency"
	FieldScript    = "script"
	FieldLocations = "locations"
	FieldTags      = "tags"
	FieldGroupID   = "groupId"
	FieldUpdatedAt = "updated_at"
)

// Check is a Checkly check as returned by the API.
//
// Only the fields this server reasons about are typed. Every other field is
// kept verbatim in Extra and written back unchanged, so a read-modify-write
// cycle never drops settings this package does not know about.
type Check struct {
	ID        string
	Name      string
	CheckType string
	Activated bool
	Frequency int
	Script    *string
	Locations []string
	Tags      []string
	GroupID   *int64
	UpdatedAt string

	// Extra holds fields not modeled above, keyed by JSON name.
	Extra map[string]json.RawMessage

	// source holds the raw encoding of known fields as decoded. Untouched
	// fields are written back from here byte for byte.
	source map[string]json.RawMessage

	// dirty marks known fields changed through Apply.
	dirty map[string]bool
}

// knownFields lists the typed fields in a stable order.
var knownFields = []string{
	FieldID, FieldName, FieldCheckType, FieldActivated, FieldFrequency,
	FieldScript, FieldLocations, FieldTags, FieldGroupID, FieldUpdatedAt,
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Check) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Check{
		Extra:  make(map[string]json.RawMessage),
		source: make(map[string]json.RawMessage),
	}

	for key, value := range raw {
		target := out.fieldPtr(key)
		if target == nil {
			out.Extra[key] = value
			continue
		}
		if !isNull(value) {
			if err := json.Unmarshal(value, target); err != nil {
				return fmt.Errorf("decode check field %q: %w", key, err)
			}
		}
		out.source[key] = value
	}

	*c = out
	return nil
}

// MarshalJSON implements json.Marshaler. HTML characters in scripts are not
// escaped.
func (c Check) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(c.Extra)+len(knownFields))
	for key, value := range c.Extra {
		fields[key] = value
	}

	for _, key := range knownFields {
		if !c.Has(key) {
			continue
		}
		if raw, ok := c.source[key]; ok && !c.dirty[key] {
			fields[key] = raw
			continue
		}
		value, err := encodeValue(c.fieldValue(key))
		if err != nil {
			return nil, fmt.Errorf("encode check field %q: %w", key, err)
		}
		fields[key] = value
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := encodeValue(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Has reports whether the known field key is present on the check. Checks
// built in code without decoding have every non-optional field present.
func (c Check) Has(key string) bool {
	if c.source == nil && c.dirty == nil {
		switch key {
		case FieldScript:
			return c.Script != nil
		case FieldGroupID:
			return c.GroupID != nil
		case FieldUpdatedAt, FieldCheckType:
			return c.fieldValue(key) != ""
		}
		return true
	}
	_, ok := c.source[key]
	return ok || c.dirty[key]
}

// Clone returns a deep copy of the check.
func (c Check) Clone() Check {
	out := c
	if c.Script != nil {
		s := *c.Script
		out.Script = &s
	}
	if c.GroupID != nil {
		g := *c.GroupID
		out.GroupID = &g
	}
	out.Locations = append([]string(nil), c.Locations...)
	out.Tags = append([]string(nil), c.Tags...)
	if c.Locations != nil && len(c.Locations) == 0 {
		out.Locations = []string{}
	}
	if c.Tags != nil && len(c.Tags) == 0 {
		out.Tags = []string{}
	}
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if c.source != nil {
		out.source = make(map[string]json.RawMessage, len(c.source))
		for k, v := range c.source {
			out.source[k] = v
		}
	}
	if c.dirty != nil {
		out.dirty = make(map[string]bool, len(c.dirty))
		for k, v := range c.dirty {
			out.dirty[k] = v
		}
	}
	return out
}

// markDirty records key as changed so it is encoded from the typed field.
func (c *Check) markDirty(key string) {
	if c.source == nil && c.dirty == nil {
		// Built in code: keep every currently present field present.
		c.dirty = make(map[string]bool, len(knownFields))
		for _, k := range knownFields {
			if c.Has(k) {
				c.dirty[k] = true
			}
		}
	}
	if c.dirty == nil {
		c.dirty = make(map[string]bool)
	}
	c.dirty[key] = true
}

func (c *Check) fieldPtr(key string) any {
	switch key {
	case FieldID:
		return &c.ID
	case FieldName:
		return &c.Name
	case FieldCheckType:
		return &c.CheckType
	case FieldActivated:
		return &c.Activated
	case FieldFrequency:
		return &c.Frequency
	case FieldScript:
		return &c.Script
	case FieldLocations:
		return &c.Locations
	case FieldTags:
		return &c.Tags
	case FieldGroupID:
		return &c.GroupID
	case FieldUpdatedAt:
		return &c.UpdatedAt
	}
	return nil
}

func (c Check) fieldValue(key string) any {
	switch key {
	case FieldID:
		return c.ID
	case FieldName:
		return c.Name
	case FieldCheckType:
		return c.CheckType
	case FieldActivated:
		return c.Activated
	case FieldFrequency:
		return c.Frequency
	case FieldScript:
		return c.Script
	case FieldLocations:
		return c.Locations
	case FieldTags:
		return c.Tags
	case FieldGroupID:
		return c.GroupID
	case FieldUpdatedAt:
		return c.UpdatedAt
	}
	return nil
}

// encodeValue marshals v without HTML escaping and without the trailing
// newline json.Encoder adds.
func encodeValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
