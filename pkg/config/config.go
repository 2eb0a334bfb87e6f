// Package config loads named validation schemas from YAML or JSON files,
// so schema definitions can live outside application code and be shared
// with the reqcheck CLI.
package config

import (
	"fmt"

	"github.com/nextyfine-dev/reqcheck/pkg/middleware"
)

// SchemaSet is the top-level document of a schema file.
type SchemaSet struct {
	// Version is the schema file format version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Schemas maps schema names to their definitions.
	Schemas map[string]*SchemaDef `json:"schemas" yaml:"schemas"`
}

// SchemaDef is one named schema.
type SchemaDef struct {
	// Target selects which request section(s) the schema validates:
	// body (default), params, query, headers, or multiple.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Rules is a rule-map schema for the rule engine. For target multiple,
	// its top-level keys are section names.
	Rules map[string]any `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Schema is a JSON Schema document for the schema engine. Mutually
	// exclusive with Rules.
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// EffectiveTarget returns the definition's validation target, defaulting
// to body.
func (d *SchemaDef) EffectiveTarget() middleware.Target {
	if d.Target == "" {
		return middleware.TargetBody
	}
	return middleware.Target(d.Target)
}

// SchemaValue returns the schema value to hand to the engine.
func (d *SchemaDef) SchemaValue() any {
	if d.Schema != nil {
		return normalizeValue(d.Schema)
	}
	return normalizeValue(d.Rules)
}

// IsJSONSchema reports whether the definition uses a JSON Schema document
// rather than a rule map.
func (d *SchemaDef) IsJSONSchema() bool {
	return d.Schema != nil
}

// Validate checks the set for structural problems before use.
func (s *SchemaSet) Validate() error {
	if len(s.Schemas) == 0 {
		return fmt.Errorf("schema set defines no schemas")
	}
	for name, def := range s.Schemas {
		if def == nil {
			return fmt.Errorf("schema %q is empty", name)
		}
		if def.Rules == nil && def.Schema == nil {
			return fmt.Errorf("schema %q defines neither rules nor schema", name)
		}
		if def.Rules != nil && def.Schema != nil {
			return fmt.Errorf("schema %q defines both rules and schema", name)
		}
		if def.Target != "" {
			if _, ok := middleware.ParseTarget(def.Target); !ok {
				return fmt.Errorf("schema %q has unrecognized target %q", name, def.Target)
			}
		}
	}
	return nil
}

// Get returns the named schema definition.
func (s *SchemaSet) Get(name string) (*SchemaDef, error) {
	def, ok := s.Schemas[name]
	if !ok {
		return nil, fmt.Errorf("schema %q not found", name)
	}
	return def, nil
}

// normalizeValue rewrites the map[any]any values some YAML decoders
// produce into map[string]any, recursively, so engines see JSON-shaped
// data.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
