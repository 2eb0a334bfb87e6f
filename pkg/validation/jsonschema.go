package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaEngine validates request sections against JSON Schema documents
// (draft 2020-12). Schemas may be supplied as decoded maps, raw JSON, or
// JSON strings.
type SchemaEngine struct{}

// NewSchemaEngine builds the JSON Schema engine. It ignores custom checker
// options; checkers belong to the rule-map engine.
func NewSchemaEngine(_ *Options) (Engine, error) {
	return &SchemaEngine{}, nil
}

// Compiled schemas are cached process-wide keyed by their canonical JSON
// text: engines are rebuilt per request but schemas are fixed at
// middleware construction.
var (
	schemaMu    sync.RWMutex
	schemaCache = make(map[string]*jsonschema.Schema)
)

func compileSchema(schema any) (*jsonschema.Schema, error) {
	var data []byte
	switch s := schema.(type) {
	case json.RawMessage:
		data = s
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		// Round-trip through JSON to normalize Go types.
		var err error
		data, err = json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
	}

	key := string(data)
	schemaMu.RLock()
	compiled, ok := schemaCache[key]
	schemaMu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", strings.NewReader(key)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	schemaMu.Lock()
	schemaCache[key] = compiled
	schemaMu.Unlock()
	return compiled, nil
}

// Validate checks value against the JSON Schema. Schema compilation
// failures are engine errors; instance violations are FieldErrors.
func (e *SchemaEngine) Validate(_ context.Context, value any, schema any) ([]*FieldError, error) {
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, err
	}

	if err := compiled.Validate(value); err != nil {
		var verr *jsonschema.ValidationError
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			verr = ve
		} else {
			return nil, fmt.Errorf("schema validation: %w", err)
		}
		var out []*FieldError
		collectSchemaErrors(verr, &out)
		return out, nil
	}
	return nil, nil
}

// collectSchemaErrors walks the validation error tree, keeping leaf causes
// which carry the specific violations.
func collectSchemaErrors(err *jsonschema.ValidationError, out *[]*FieldError) {
	if len(err.Causes) == 0 {
		field := fieldFromPointer(err.InstanceLocation)
		message := err.Message
		if field != "" {
			message = fmt.Sprintf("%s %s", field, err.Message)
		}
		*out = append(*out, &FieldError{
			Field:   field,
			Code:    ErrCodeSchema,
			Message: message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// fieldFromPointer converts a JSON Pointer instance location to dot notation.
func fieldFromPointer(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	path = strings.TrimPrefix(path, "/")
	return strings.ReplaceAll(path, "/", ".")
}
