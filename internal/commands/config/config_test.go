package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/repocheck/internal/config"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/i18n"
)

func setup(t *testing.T) (*config.Config, *i18n.Translations) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"language":"en","workers":4,"checkout_mode":"ephemeral"}`), 0600))

	cfg, err := config.ReadFile(path)
	require.NoError(t, err)

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return cfg, translations
}

func TestConfigShow(t *testing.T) {
	cfg, translations := setup(t)
	cfg.GitHubToken = "secret"

	cmd := NewConfigCommandFactory().CreateCommand(translations, cfg)
	var out bytes.Buffer
	cmd.Writer = &out

	require.NoError(t, cmd.Run(context.Background(), []string{"config", "show"}))

	assert.Contains(t, out.String(), "checkout_mode")
	assert.Contains(t, out.String(), "ephemeral")
	assert.NotContains(t, out.String(), "secret")
}

func TestConfigSet(t *testing.T) {
	t.Run("should persist a valid value", func(t *testing.T) {
		cfg, translations := setup(t)

		cmd := NewConfigCommandFactory().CreateCommand(translations, cfg)
		var out bytes.Buffer
		cmd.Writer = &out

		require.NoError(t, cmd.Run(context.Background(), []string{"config", "set", "workers", "8"}))

		saved, err := config.ReadFile(cfg.PathFile)
		require.NoError(t, err)
		assert.Equal(t, 8, saved.Workers)
		assert.Contains(t, out.String(), "workers saved")
	})

	t.Run("should reject an unknown key", func(t *testing.T) {
		cfg, translations := setup(t)

		cmd := NewConfigCommandFactory().CreateCommand(translations, cfg)
		cmd.Writer = &bytes.Buffer{}

		err := cmd.Run(context.Background(), []string{"config", "set", "colour", "blue"})

		assert.EqualError(t, err, "Unknown configuration key: colour")
	})

	t.Run("should reject an invalid value without saving", func(t *testing.T) {
		cfg, translations := setup(t)

		cmd := NewConfigCommandFactory().CreateCommand(translations, cfg)
		cmd.Writer = &bytes.Buffer{}

		err := cmd.Run(context.Background(), []string{"config", "set", "checkout_mode", "forever"})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidConfig)
		saved, readErr := config.ReadFile(cfg.PathFile)
		require.NoError(t, readErr)
		assert.Equal(t, "ephemeral", saved.CheckoutMode)
	})

	t.Run("should require two arguments", func(t *testing.T) {
		cfg, translations := setup(t)

		cmd := NewConfigCommandFactory().CreateCommand(translations, cfg)
		cmd.Writer = &bytes.Buffer{}

		assert.Error(t, cmd.Run(context.Background(), []string{"config", "set", "workers"}))
	})
}
