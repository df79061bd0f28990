package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrInvalidDefinition = errors.New("invalid object definition")

// ObjectDefinition is a JSON-described warehouse object, e.g.
//
//	{"name": "orders", "columns": [{"name": "id", "type": "NUMBER"}]}
//
// Keys other than "columns" are passed to the templates untouched.
type ObjectDefinition map[string]any

// LoadObjectDefinition reads a definition from a JSON file
func LoadObjectDefinition(path string) (ObjectDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read object definition: %w", err)
	}
	return ParseObjectDefinition(raw)
}

// ParseObjectDefinition decodes a definition from JSON
func ParseObjectDefinition(raw []byte) (ObjectDefinition, error) {
	var def ObjectDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidDefinition)
	}
	return def, nil
}

// Columns returns the column entries. A definition without columns has none.
func (d ObjectDefinition) Columns() ([]any, error) {
	raw, ok := d["columns"]
	if !ok || raw == nil {
		return []any{}, nil
	}
	cols, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: columns must be a list, got %T", ErrInvalidDefinition, raw)
	}
	return cols, nil
}

// Name returns the "name" key, if present
func (d ObjectDefinition) Name() string {
	if s, ok := d["name"].(string); ok {
		return s
	}
	return ""
}

// WithColumns returns a shallow copy whose columns are replaced
func (d ObjectDefinition) WithColumns(columns []string) ObjectDefinition {
	out := make(ObjectDefinition, len(d))
	for k, v := range d {
		out[k] = v
	}
	out["columns"] = columns
	return out
}
