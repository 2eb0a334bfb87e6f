// Package middleware validates HTTP request sections against declarative
// schemas before requests reach application handlers.
//
// A middleware instance is configured with a schema and a validation
// target. Single-target schemas validate one request section (body, path
// parameters, query string, or headers); Multi Schemas map section names
// to their own sub-schemas and are validated with TargetMultiple:
//
//	// one section
//	mw := middleware.New(map[string]any{
//	    "name":  "required,min=2",
//	    "email": "required,email",
//	}, middleware.TargetBody)
//
//	// several sections in one configuration
//	mw := middleware.NewMulti(map[string]any{
//	    "body":  map[string]any{"name": "required"},
//	    "query": map[string]any{"page": "omitempty,number"},
//	})
//
//	mux.Handle("POST /users", mw(http.HandlerFunc(createUser)))
//
// On failure the middleware writes a 422 response with the fixed shape
// {type, status, message, details} and the next handler never runs.
// Sections of a Multi Schema are checked in body, params, query, headers
// order and validation stops at the first failing section.
//
// Engine faults (malformed schemas, broken custom checkers) are not
// rendered as 422s; they travel through Wrap to an ErrorHandler, so no
// failure escapes unreported.
package middleware
