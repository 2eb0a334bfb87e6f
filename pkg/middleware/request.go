package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nextyfine-dev/reqcheck/pkg/httputil"
	"github.com/nextyfine-dev/reqcheck/pkg/validation"
)

// extractSection pulls the request section named by target, decoded to
// plain Go types for the engine. A malformed JSON body is a validation
// failure, not an internal error: the client sent it, the client gets a
// 422. Read failures on the body stream are internal.
func extractSection(r *http.Request, target Target, schema any) (map[string]any, []*validation.FieldError, error) {
	switch target {
	case TargetBody:
		body, err := httputil.DecodeBody(r)
		if err != nil {
			if isJSONError(err) {
				return nil, []*validation.FieldError{validation.NewInvalidJSONError(err.Error())}, nil
			}
			return nil, nil, err
		}
		return body, nil, nil
	case TargetParams:
		return httputil.PathValues(r, schemaFields(schema)), nil, nil
	case TargetQuery:
		return httputil.QueryValues(r), nil, nil
	case TargetHeaders:
		return httputil.HeaderValues(r, schemaFields(schema)), nil, nil
	}
	return map[string]any{}, nil, nil
}

func isJSONError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
