package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleEngine validates rule-map schemas, where each top-level key names a
// field and each value is either a rule string ("required,min=2") or a
// nested rule map for nested objects. Rules use go-playground/validator
// tag syntax.
type RuleEngine struct {
	v *validator.Validate
}

// checkerErr carries a broken-checker failure out of a validator callback,
// which can only report pass/fail.
type checkerErr struct {
	rule string
	err  error
}

// NewRuleEngine builds the default rule-map engine. Custom checkers and
// expressions from opts are registered as additional rule names when
// custom checker support is enabled.
func NewRuleEngine(opts *Options) (Engine, error) {
	v := validator.New()
	e := &RuleEngine{v: v}

	if opts == nil || !opts.customCheckersEnabled() {
		return e, nil
	}

	for name, src := range opts.Expressions {
		check, err := ExpressionChecker(src)
		if err != nil {
			return nil, err
		}
		if err := registerChecker(v, name, check); err != nil {
			return nil, err
		}
	}
	for name, check := range opts.Checkers {
		if err := registerChecker(v, name, check); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func registerChecker(v *validator.Validate, name string, check CheckerFunc) error {
	fn := func(ctx context.Context, fl validator.FieldLevel) bool {
		var value any
		if fl.Field().IsValid() && fl.Field().CanInterface() {
			value = fl.Field().Interface()
		}
		ok, err := check(ctx, value)
		if err != nil {
			panic(&checkerErr{rule: name, err: err})
		}
		return ok
	}
	if err := v.RegisterValidationCtx(name, fn); err != nil {
		return fmt.Errorf("failed to register checker %q: %w", name, err)
	}
	return nil
}

// Validate checks value (a decoded request section) against a rule map.
// Errors are ordered by field name so the first entry is deterministic.
func (e *RuleEngine) Validate(ctx context.Context, value any, schema any) (fieldErrs []*FieldError, err error) {
	rules, err := toRuleMap(schema)
	if err != nil {
		return nil, err
	}
	data, err := toDataMap(value)
	if err != nil {
		return nil, err
	}

	// The validator panics on malformed rule strings and unknown rule
	// names, and checker callbacks panic to carry their own failures out.
	// Both are engine faults, not validation failures.
	defer func() {
		if r := recover(); r != nil {
			fieldErrs = nil
			if ce, ok := r.(*checkerErr); ok {
				err = fmt.Errorf("custom checker %q failed: %w", ce.rule, ce.err)
				return
			}
			err = fmt.Errorf("rule engine: invalid schema: %v", r)
		}
	}()

	results := e.v.ValidateMapCtx(ctx, data, rules)
	return flattenMapErrors("", results), nil
}

func toRuleMap(schema any) (map[string]any, error) {
	switch s := schema.(type) {
	case map[string]any:
		return s, nil
	case map[string]string:
		rules := make(map[string]any, len(s))
		for k, v := range s {
			rules[k] = v
		}
		return rules, nil
	default:
		return nil, fmt.Errorf("rule engine: unsupported schema type %T", schema)
	}
}

func toDataMap(value any) (map[string]any, error) {
	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case map[string]string:
		data := make(map[string]any, len(v))
		for k, val := range v {
			data[k] = val
		}
		return data, nil
	default:
		return nil, fmt.Errorf("rule engine: unsupported value type %T", value)
	}
}

// flattenMapErrors converts the nested error map returned by ValidateMapCtx
// into a flat, field-sorted FieldError list.
func flattenMapErrors(prefix string, results map[string]any) []*FieldError {
	var out []*FieldError

	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field := key
		if prefix != "" {
			field = prefix + "." + key
		}
		switch res := results[key].(type) {
		case map[string]any:
			out = append(out, flattenMapErrors(field, res)...)
		case error:
			out = append(out, convertFieldErrors(field, res)...)
		}
	}
	return out
}

func convertFieldErrors(field string, err error) []*FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{
			Field:   field,
			Code:    ErrCodeRule,
			Message: fmt.Sprintf("%s is invalid: %s", field, err.Error()),
		}}
	}

	out := make([]*FieldError, 0, len(verrs))
	for _, ve := range verrs {
		out = append(out, convertTagError(field, ve))
	}
	return out
}

// convertTagError renders a validator tag failure into a client-facing
// message. Unhandled tags fall back to naming the rule.
func convertTagError(field string, ve validator.FieldError) *FieldError {
	fe := &FieldError{
		Field: field,
		Code:  ve.Tag(),
	}
	if v := ve.Value(); v != nil {
		fe.Received = v
	}

	switch ve.Tag() {
	case "required":
		fe.Code = ErrCodeRequired
		fe.Message = fmt.Sprintf("%s is required", field)
		fe.Expected = "non-null value"
	case "email":
		fe.Message = fmt.Sprintf("%s must be a valid email address", field)
	case "uuid", "uuid4":
		fe.Message = fmt.Sprintf("%s must be a valid UUID", field)
	case "url", "uri":
		fe.Message = fmt.Sprintf("%s must be a valid URL", field)
	case "number", "numeric":
		fe.Code = ErrCodeType
		fe.Message = fmt.Sprintf("%s must be a number", field)
		fe.Expected = "number"
	case "boolean":
		fe.Code = ErrCodeType
		fe.Message = fmt.Sprintf("%s must be a boolean", field)
		fe.Expected = "boolean"
	case "min":
		if ve.Kind() == reflect.String {
			fe.Message = fmt.Sprintf("%s must be at least %s characters", field, ve.Param())
		} else {
			fe.Message = fmt.Sprintf("%s must be at least %s", field, ve.Param())
		}
		fe.Expected = ">= " + ve.Param()
	case "max":
		if ve.Kind() == reflect.String {
			fe.Message = fmt.Sprintf("%s must not exceed %s characters", field, ve.Param())
		} else {
			fe.Message = fmt.Sprintf("%s must not exceed %s", field, ve.Param())
		}
		fe.Expected = "<= " + ve.Param()
	case "oneof":
		fe.Message = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(ve.Param(), " ", ", "))
		fe.Expected = "one of: " + ve.Param()
	case "len":
		fe.Message = fmt.Sprintf("%s must have length %s", field, ve.Param())
		fe.Expected = "length " + ve.Param()
	default:
		fe.Code = ErrCodeRule
		if ve.Param() != "" {
			fe.Message = fmt.Sprintf("%s failed on the '%s=%s' rule", field, ve.Tag(), ve.Param())
		} else {
			fe.Message = fmt.Sprintf("%s failed on the '%s' rule", field, ve.Tag())
		}
	}
	return fe
}
