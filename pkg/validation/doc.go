// Package validation provides the pluggable engines that check request
// sections against declarative schemas.
//
// An Engine takes a value (one request section, decoded to plain Go types)
// and a schema, and returns either an empty result (success) or an ordered
// list of FieldErrors. Engines never write HTTP responses themselves; that
// is the middleware package's job.
//
// Three engines are provided:
//   - RuleEngine: rule-map schemas ({"name": "required,min=2"}) backed by
//     go-playground/validator. This is the default.
//   - SchemaEngine: JSON Schema (draft 2020-12) documents backed by
//     santhosh-tekuri/jsonschema.
//   - OpenAPIValidator: whole-request validation against an OpenAPI 3 spec.
//
// # Custom checkers
//
// Both named Go functions and expr-language expressions can be registered as
// custom rules:
//
//	opts := &validation.Options{
//	    Checkers: map[string]validation.CheckerFunc{
//	        "even": func(ctx context.Context, v any) (bool, error) {
//	            n, ok := v.(float64)
//	            return ok && int(n)%2 == 0, nil
//	        },
//	    },
//	    Expressions: map[string]string{
//	        "adult": `value >= 18`,
//	    },
//	}
//
// Custom checker support is enabled by default; set UseCustomCheckers to
// false to build an engine without it.
package validation
