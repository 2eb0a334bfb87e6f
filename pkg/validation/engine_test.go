package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsMerged(t *testing.T) {
	t.Parallel()

	t.Run("nil options select defaults", func(t *testing.T) {
		t.Parallel()
		var opts *Options
		m := opts.merged()
		assert.NotNil(t, m.NewEngine)
		require.NotNil(t, m.UseCustomCheckers)
		assert.True(t, *m.UseCustomCheckers)
	})

	t.Run("mandatory flag applies first, caller wins", func(t *testing.T) {
		t.Parallel()
		m := (&Options{UseCustomCheckers: Bool(false)}).merged()
		require.NotNil(t, m.UseCustomCheckers)
		assert.False(t, *m.UseCustomCheckers)
	})

	t.Run("caller engine selector kept", func(t *testing.T) {
		t.Parallel()
		m := (&Options{NewEngine: NewSchemaEngine}).merged()
		engine, err := m.NewEngine(m)
		require.NoError(t, err)
		_, ok := engine.(*SchemaEngine)
		assert.True(t, ok)
	})
}

func TestNewDefaultsToRuleEngine(t *testing.T) {
	t.Parallel()

	engine, err := New(nil)
	require.NoError(t, err)
	_, ok := engine.(*RuleEngine)
	assert.True(t, ok)
}
