package validation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// OpenAPIValidator validates whole requests against an OpenAPI 3 spec,
// covering path parameters, query parameters, headers, and body in a
// single pass.
type OpenAPIValidator struct {
	doc    *openapi3.T
	router routers.Router
}

// OpenAPIConfig selects the spec source. Exactly one of the fields must
// be set.
type OpenAPIConfig struct {
	// SpecFile is a path to a YAML or JSON spec file.
	SpecFile string `json:"specFile,omitempty" yaml:"specFile,omitempty"`

	// SpecURL fetches the spec from a URL.
	SpecURL string `json:"specUrl,omitempty" yaml:"specUrl,omitempty"`

	// Spec is an inline spec document.
	Spec string `json:"spec,omitempty" yaml:"spec,omitempty"`
}

// NewOpenAPIValidator loads and validates the spec, then builds a router
// for matching incoming requests to operations.
func NewOpenAPIValidator(config *OpenAPIConfig) (*OpenAPIValidator, error) {
	if config == nil {
		return nil, fmt.Errorf("openapi config is required")
	}

	var doc *openapi3.T
	var err error
	switch {
	case config.SpecFile != "":
		doc, err = LoadSpec(config.SpecFile)
	case config.SpecURL != "":
		doc, err = LoadSpecFromURL(config.SpecURL)
	case config.Spec != "":
		doc, err = LoadSpecFromString(config.Spec)
	default:
		return nil, fmt.Errorf("no OpenAPI spec source provided (specFile, specUrl, or spec required)")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &OpenAPIValidator{doc: doc, router: router}, nil
}

// LoadSpec loads an OpenAPI spec from a file path.
func LoadSpec(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load spec from file %s: %w", path, err)
	}
	return doc, nil
}

// LoadSpecFromURL loads an OpenAPI spec from a URL.
func LoadSpecFromURL(specURL string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	parsedURL, err := url.Parse(specURL)
	if err != nil {
		return nil, fmt.Errorf("invalid spec URL: %w", err)
	}
	doc, err := loader.LoadFromURI(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load spec from URL %s: %w", specURL, err)
	}
	return doc, nil
}

// LoadSpecFromString loads an OpenAPI spec from an inline document.
func LoadSpecFromString(spec string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData([]byte(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to load spec from string: %w", err)
	}
	return doc, nil
}

// ValidateRequest validates an incoming HTTP request against the spec.
// The body is buffered and restored so downstream handlers can re-read it.
// An unmatched route is reported as a validation failure, not an error.
func (v *OpenAPIValidator) ValidateRequest(r *http.Request) ([]*FieldError, error) {
	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		return []*FieldError{{
			Location: LocationParams,
			Code:     "no_route",
			Message:  fmt.Sprintf("no matching route found: %s", err.Error()),
		}}, nil
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}

	if r.Body != nil && r.Body != http.NoBody {
		const maxBodySize = 10 << 20
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		input.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		var out []*FieldError
		collectOpenAPIErrors(err, &out)
		return out, nil
	}
	return nil, nil
}

// collectOpenAPIErrors converts kin-openapi errors to FieldErrors.
func collectOpenAPIErrors(err error, out *[]*FieldError) {
	if err == nil {
		return
	}

	if multiErr, ok := err.(openapi3.MultiError); ok {
		for _, e := range multiErr {
			collectOpenAPIErrors(e, out)
		}
		return
	}

	reqErr, ok := err.(*openapi3filter.RequestError)
	if !ok {
		*out = append(*out, &FieldError{
			Code:    ErrCodeSchema,
			Message: err.Error(),
		})
		return
	}

	fe := &FieldError{
		Code:    ErrCodeSchema,
		Message: reqErr.Error(),
	}
	switch {
	case reqErr.Parameter != nil:
		fe.Field = reqErr.Parameter.Name
		switch reqErr.Parameter.In {
		case "path":
			fe.Location = LocationParams
		case "query":
			fe.Location = LocationQuery
		case "header":
			fe.Location = LocationHeaders
		}
	case reqErr.RequestBody != nil:
		fe.Location = LocationBody
	}

	if reqErr.Err != nil {
		fe.Message = reqErr.Err.Error()
		if schemaErr, ok := reqErr.Err.(*openapi3.SchemaError); ok {
			if field := fieldFromJSONPointer(schemaErr.JSONPointer()); field != "" {
				fe.Field = field
			}
			fe.Message = schemaErr.Reason
		}
	}
	*out = append(*out, fe)
}

// fieldFromJSONPointer joins a decoded JSON pointer into dot notation.
func fieldFromJSONPointer(segments []string) string {
	field := ""
	for _, s := range segments {
		if field == "" {
			field = s
		} else {
			field = field + "." + s
		}
	}
	return field
}
