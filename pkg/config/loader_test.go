package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextyfine-dev/reqcheck/pkg/middleware"
)

const schemaYAML = `
version: "1"
schemas:
  createUser:
    target: multiple
    rules:
      body:
        name: required,min=2
        email: required,email
      query:
        page: omitempty,number
  getUser:
    target: params
    rules:
      id: required,uuid4
  userDoc:
    schema:
      type: object
      required: [name]
      properties:
        name:
          type: string
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	t.Run("YAML schema set", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "schemas.yaml", schemaYAML)

		set, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Len(t, set.Schemas, 3)

		def, err := set.Get("createUser")
		require.NoError(t, err)
		assert.Equal(t, middleware.TargetMultiple, def.EffectiveTarget())
		assert.False(t, def.IsJSONSchema())

		schema, ok := def.SchemaValue().(map[string]any)
		require.True(t, ok)
		assert.True(t, middleware.IsMulti(schema))

		body, ok := schema["body"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "required,min=2", body["name"])
	})

	t.Run("JSON schema set", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "schemas.json",
			`{"schemas":{"ping":{"rules":{"msg":"required"}}}}`)

		set, err := LoadFromFile(path)
		require.NoError(t, err)

		def, err := set.Get("ping")
		require.NoError(t, err)
		assert.Equal(t, middleware.TargetBody, def.EffectiveTarget())
	})

	t.Run("JSON Schema definition", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "schemas.yaml", schemaYAML)
		set, err := LoadFromFile(path)
		require.NoError(t, err)

		def, err := set.Get("userDoc")
		require.NoError(t, err)
		assert.True(t, def.IsJSONSchema())

		schema, ok := def.SchemaValue().(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", schema["type"])
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "empty.yaml", "")
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "broken.json", `{"schemas":`)
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})
}

func TestSchemaSetValidate(t *testing.T) {
	t.Parallel()

	t.Run("rejects unrecognized target", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "s.yaml", `
schemas:
  bad:
    target: cookies
    rules:
      a: required
`)
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized target")
	})

	t.Run("rejects rules and schema together", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "s.yaml", `
schemas:
  bad:
    rules:
      a: required
    schema:
      type: object
`)
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "both rules and schema")
	})

	t.Run("rejects empty definitions", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "s.yaml", `
schemas:
  bad: {}
`)
		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "neither rules nor schema")
	})
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	t.Run("merges matching files recursively", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "users.yaml", `
schemas:
  createUser:
    rules:
      name: required
`)
		writeFile(t, dir, "nested/orders.yml", `
schemas:
  createOrder:
    rules:
      sku: required
`)
		writeFile(t, dir, "README.md", "not a schema file")

		set, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Len(t, set.Schemas, 2)
	})

	t.Run("custom glob patterns", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "schemas:\n  a:\n    rules:\n      x: required\n")
		writeFile(t, dir, "b.json", `{"schemas":{"b":{"rules":{"x":"required"}}}}`)

		set, err := LoadDir(dir, "*.json")
		require.NoError(t, err)
		assert.Len(t, set.Schemas, 1)
		_, err = set.Get("b")
		assert.NoError(t, err)
	})

	t.Run("duplicate names across files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "schemas:\n  dup:\n    rules:\n      x: required\n")
		writeFile(t, dir, "b.yaml", "schemas:\n  dup:\n    rules:\n      y: required\n")

		_, err := LoadDir(dir)
		assert.ErrorIs(t, err, ErrDuplicateSchema)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
