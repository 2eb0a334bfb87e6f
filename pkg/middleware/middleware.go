package middleware

import (
	"log/slog"
	"net/http"

	"github.com/nextyfine-dev/reqcheck/pkg/logging"
	"github.com/nextyfine-dev/reqcheck/pkg/validation"
)

// Middleware validates one or more request sections against a schema
// before handing control to the next handler. Exactly one of two effects
// occurs per request: a single 422 JSON error response, or a single call
// to the next handler.
type Middleware struct {
	next    http.Handler
	schema  any
	target  Target
	opts    *validation.Options
	logger  *slog.Logger
	onError ErrorHandler
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithEngineOptions passes configuration through to the validation engine.
// The mandatory custom-checker default is applied first; these options are
// layered on top.
func WithEngineOptions(opts *validation.Options) Option {
	return func(m *Middleware) { m.opts = opts }
}

// WithLogger sets the logger used by the default error handler.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) { m.logger = logger }
}

// WithErrorHandler replaces the default handler for engine and internal
// failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) { m.onError = h }
}

// New returns validation middleware for the given schema and target.
// Pass TargetBody for the common single-section case.
func New(schema any, target Target, opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		m := &Middleware{
			next:   next,
			schema: schema,
			target: target,
			logger: logging.Nop(),
		}
		for _, opt := range opts {
			opt(m)
		}
		if m.onError == nil {
			m.onError = NewErrorHandler(m.logger)
		}
		return Wrap(m.serve, m.onError)
	}
}

// NewMulti returns validation middleware with the target fixed to
// TargetMultiple, for Multi Schemas mapping section names to sub-schemas.
func NewMulti(schema any, opts ...Option) func(http.Handler) http.Handler {
	return New(schema, TargetMultiple, opts...)
}

// serve runs the dispatch procedure. Validation and configuration failures
// are rendered as 422 responses here; engine failures are returned and
// reach the error handler through Wrap.
func (m *Middleware) serve(w http.ResponseWriter, r *http.Request) error {
	// Engines are rebuilt per request so per-call options always apply.
	// Compiled rule programs and schemas are cached process-wide, which
	// keeps the rebuild cheap.
	engine, err := validation.New(m.opts)
	if err != nil {
		return err
	}

	if m.target == TargetMultiple && IsMulti(m.schema) {
		return m.serveMulti(w, r, engine)
	}
	return m.serveSingle(w, r, engine)
}

// serveMulti validates each section named by a Multi Schema, in fixed
// order, stopping at the first failure.
func (m *Middleware) serveMulti(w http.ResponseWriter, r *http.Request, engine validation.Engine) error {
	sections := m.schema.(map[string]any)
	for _, key := range sectionKeys(sections) {
		target := Target(key)
		if !target.IsSection() {
			validation.NewInvalidTargetResponse().Write(w)
			return nil
		}

		subSchema := sections[key]
		value, fieldErrs, err := extractSection(r, target, subSchema)
		if err != nil {
			return err
		}
		if len(fieldErrs) == 0 {
			fieldErrs, err = engine.Validate(r.Context(), value, subSchema)
			if err != nil {
				return err
			}
			setLocation(fieldErrs, target)
		}
		if len(fieldErrs) > 0 {
			validation.NewErrorResponse(fieldErrs).Write(w)
			return nil
		}
	}

	m.next.ServeHTTP(w, r)
	return nil
}

// serveSingle validates exactly one request section with the whole schema.
// A "multiple" target with a non-multi schema degenerates to body
// extraction; anything outside the recognized set is rejected outright.
func (m *Middleware) serveSingle(w http.ResponseWriter, r *http.Request, engine validation.Engine) error {
	if m.target != TargetMultiple && !m.target.IsSection() {
		validation.NewInvalidTargetResponse().Write(w)
		return nil
	}

	target := m.target
	if !target.IsSection() {
		target = TargetBody
	}

	value, fieldErrs, err := extractSection(r, target, m.schema)
	if err != nil {
		return err
	}
	if len(fieldErrs) == 0 {
		fieldErrs, err = engine.Validate(r.Context(), value, m.schema)
		if err != nil {
			return err
		}
		setLocation(fieldErrs, target)
	}
	if len(fieldErrs) > 0 {
		validation.NewErrorResponse(fieldErrs).Write(w)
		return nil
	}

	m.next.ServeHTTP(w, r)
	return nil
}

// setLocation stamps the section name onto errors the engine left unlocated.
func setLocation(errs []*validation.FieldError, target Target) {
	for _, e := range errs {
		if e.Location == "" {
			e.Location = string(target)
		}
	}
}

// NewOpenAPI returns middleware that validates whole requests against an
// OpenAPI 3 spec, emitting the same 422 error contract as schema-driven
// validation.
func NewOpenAPI(v *validation.OpenAPIValidator, opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		m := &Middleware{next: next, logger: logging.Nop()}
		for _, opt := range opts {
			opt(m)
		}
		if m.onError == nil {
			m.onError = NewErrorHandler(m.logger)
		}
		return Wrap(func(w http.ResponseWriter, r *http.Request) error {
			fieldErrs, err := v.ValidateRequest(r)
			if err != nil {
				return err
			}
			if len(fieldErrs) > 0 {
				validation.NewErrorResponse(fieldErrs).Write(w)
				return nil
			}
			m.next.ServeHTTP(w, r)
			return nil
		}, m.onError)
	}
}
