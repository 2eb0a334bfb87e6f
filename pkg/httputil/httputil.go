// Package httputil provides shared HTTP utilities for consistent response
// handling and request section extraction.
package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// maxBodySize caps how much of a request body is buffered for validation.
const maxBodySize = 10 << 20 // 10MB

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response with the given status code.
// The error response includes an error code and a human-readable message.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, map[string]string{
		"error":   errCode,
		"message": message,
	})
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusInternalServerError, errCode, message)
}

// ReadBody buffers the request body (capped at 10MB) and restores it so
// downstream handlers can read it again. A nil or absent body yields an
// empty slice.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(data))
	return data, nil
}

// DecodeBody buffers and JSON-decodes the request body into a map. The body
// is restored for downstream handlers. An empty body decodes to an empty map.
func DecodeBody(r *http.Request) (map[string]any, error) {
	data, err := ReadBody(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// QueryValues flattens the request query string into a map, keeping the
// first value for each key.
func QueryValues(r *http.Request) map[string]any {
	values := map[string]any{}
	for key, vals := range r.URL.Query() {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}
	return values
}

// HeaderValues extracts the named headers into a map. Lookup is
// case-insensitive; absent headers are omitted so required-field rules
// fire on them.
func HeaderValues(r *http.Request, keys []string) map[string]any {
	values := map[string]any{}
	for _, key := range keys {
		if v := r.Header.Get(key); v != "" {
			values[key] = v
		}
	}
	return values
}

// PathValues extracts the named path parameters (as registered on a Go 1.22+
// ServeMux pattern) into a map. Absent parameters are omitted.
func PathValues(r *http.Request, keys []string) map[string]any {
	values := map[string]any{}
	for _, key := range keys {
		if v := r.PathValue(key); v != "" {
			values[key] = v
		}
	}
	return values
}
