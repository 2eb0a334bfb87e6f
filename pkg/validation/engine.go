package validation

import (
	"context"
)

// Engine checks one request section against a schema.
//
// Validate returns the ordered list of failures, or an empty list when the
// value conforms. A non-nil error means the engine itself failed (malformed
// schema, broken checker) and is distinct from a validation failure; callers
// propagate it to their error channel rather than rendering a 422.
type Engine interface {
	Validate(ctx context.Context, value any, schema any) ([]*FieldError, error)
}

// EngineFunc builds an Engine from merged options.
type EngineFunc func(opts *Options) (Engine, error)

// Options configures engine construction. The zero value selects the
// rule-map engine with custom checker support enabled.
type Options struct {
	// NewEngine selects the engine implementation. Defaults to NewRuleEngine.
	NewEngine EngineFunc

	// UseCustomCheckers enables registration of Checkers and Expressions.
	// nil means enabled. The default is applied before caller options, so an
	// explicit false does win; the flag is overridable on purpose.
	UseCustomCheckers *bool

	// Checkers maps rule names to Go checker functions.
	Checkers map[string]CheckerFunc

	// Expressions maps rule names to expr-language sources evaluated with
	// the field value bound to `value`.
	Expressions map[string]string
}

// merged layers the caller's options over the defaults. The mandatory
// custom-checker flag is applied first; caller settings are layered on top.
func (o *Options) merged() *Options {
	enabled := true
	out := &Options{
		NewEngine:         NewRuleEngine,
		UseCustomCheckers: &enabled,
	}
	if o == nil {
		return out
	}
	if o.NewEngine != nil {
		out.NewEngine = o.NewEngine
	}
	if o.UseCustomCheckers != nil {
		out.UseCustomCheckers = o.UseCustomCheckers
	}
	out.Checkers = o.Checkers
	out.Expressions = o.Expressions
	return out
}

// customCheckersEnabled reports the effective value of UseCustomCheckers.
func (o *Options) customCheckersEnabled() bool {
	return o.UseCustomCheckers == nil || *o.UseCustomCheckers
}

// New constructs the engine selected by opts. A nil opts yields the default
// rule-map engine with custom checker support.
func New(opts *Options) (Engine, error) {
	m := opts.merged()
	return m.NewEngine(m)
}

// Bool returns a pointer to b, for use in Options literals.
func Bool(b bool) *bool {
	return &b
}
