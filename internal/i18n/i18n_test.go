package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("should load the embedded bundles", func(t *testing.T) {
		trans, err := NewTranslations("en", "")

		require.NoError(t, err)
		assert.Equal(t, "Cache cleaned", trans.GetMessage("cache.cleaned", 0, nil))
	})

	t.Run("should localize to spanish", func(t *testing.T) {
		trans, err := NewTranslations("es", "")

		require.NoError(t, err)
		assert.Equal(t, "Caché limpiada", trans.GetMessage("cache.cleaned", 0, nil))
	})

	t.Run("should fail with empty language", func(t *testing.T) {
		trans, err := NewTranslations("", "")

		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("should load extra locale files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "active.en.toml"), []byte("[custom]\nother = \"Custom\"\n"), 0644))

		trans, err := NewTranslations("en", dir)

		require.NoError(t, err)
		assert.Equal(t, "Custom", trans.GetMessage("custom", 0, nil))
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("should render template data", func(t *testing.T) {
		msg := trans.GetMessage("evaluate.score", 0, map[string]interface{}{"Kind": "tests", "Score": 75})
		assert.Equal(t, "tests score: 75/100", msg)
	})

	t.Run("should pluralize", func(t *testing.T) {
		one := trans.GetMessage("branches.found", 1, map[string]interface{}{"Count": 1, "Author": "ana"})
		many := trans.GetMessage("branches.found", 3, map[string]interface{}{"Count": 3, "Author": "ana"})
		assert.Equal(t, "1 branch with commits by ana", one)
		assert.Equal(t, "3 branches with commits by ana", many)
	})

	t.Run("should flag missing messages", func(t *testing.T) {
		assert.Equal(t, "Translation missing: nope", trans.GetMessage("nope", 0, nil))
	})
}

func TestSetLanguage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	require.NoError(t, trans.SetLanguage("es"))
	assert.Equal(t, "Rama", trans.GetMessage("table.branch", 0, nil))

	assert.Error(t, trans.SetLanguage("fr"))
}
