package httputil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "invalid_input", "Name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "invalid_input", result["error"])
	assert.Equal(t, "Name is required", result["message"])
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	t.Run("decodes and restores the body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ann"}`))

		body, err := DecodeBody(req)
		require.NoError(t, err)
		assert.Equal(t, "Ann", body["name"])

		restored, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Ann"}`, string(restored))
	})

	t.Run("empty body decodes to empty map", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		body, err := DecodeBody(req)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("malformed JSON returns the decode error", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		_, err := DecodeBody(req)
		var syntaxErr *json.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	})
}

func TestQueryValues(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?page=2&tag=a&tag=b", nil)
	values := QueryValues(req)

	assert.Equal(t, "2", values["page"])
	assert.Equal(t, "a", values["tag"], "first value wins")
}

func TestHeaderValues(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Key", "secret")

	values := HeaderValues(req, []string{"x-api-key", "X-Missing"})
	assert.Equal(t, "secret", values["x-api-key"])
	_, ok := values["X-Missing"]
	assert.False(t, ok, "absent headers are omitted")
}

func TestPathValues(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var got map[string]any
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = PathValues(r, []string{"id", "missing"})
	})

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "42", got["id"])
	_, ok := got["missing"]
	assert.False(t, ok)
}
