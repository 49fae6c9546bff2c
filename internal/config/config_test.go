package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GITHUB_TOKEN", "REPOCHECK_WORKERS", "REPOCHECK_WORK_DIR", "REPOCHECK_CHECKOUT_MODE"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("should create defaults under the home directory", func(t *testing.T) {
		clearEnv(t)
		home := t.TempDir()

		cfg, err := LoadConfig(home)

		require.NoError(t, err)
		assert.Equal(t, "en", cfg.Language)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, "ephemeral", cfg.CheckoutMode)
		assert.Equal(t, 10*time.Minute, cfg.Timeout())
		assert.Equal(t, 24*time.Hour, cfg.TTL())
		assert.FileExists(t, filepath.Join(home, ".repocheck", "config.json"))
	})

	t.Run("should read a JSON file and keep defaults for missing fields", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "repocheck.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"language":"es","workers":8,"images":{"python":"python:3.12-slim"}}`), 0600))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "es", cfg.Language)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, "python:3.12-slim", cfg.Images.Python)
		assert.Equal(t, "ephemeral", cfg.CheckoutMode)
		assert.Equal(t, path, cfg.PathFile)
	})

	t.Run("should read a YAML file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "repocheck.yaml")
		yamlDoc := "language: en\nworkers: 2\ncheckout_mode: shared\ncommand_timeout: \"0\"\ncache_ttl: 1h\nimages:\n  java: maven:3.9-eclipse-temurin-17\n"
		require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0600))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, "shared", cfg.CheckoutMode)
		assert.Equal(t, time.Duration(0), cfg.Timeout())
		assert.Equal(t, time.Hour, cfg.TTL())
		assert.Equal(t, "maven:3.9-eclipse-temurin-17", cfg.Images.Java)
	})

	t.Run("should apply environment overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_TOKEN", "ghp_env")
		t.Setenv("REPOCHECK_WORKERS", "6")
		t.Setenv("REPOCHECK_WORK_DIR", "/srv/checkouts")
		t.Setenv("REPOCHECK_CHECKOUT_MODE", "shared")

		cfg, err := LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "ghp_env", cfg.GitHubToken)
		assert.Equal(t, 6, cfg.Workers)
		assert.Equal(t, "/srv/checkouts", cfg.WorkDir)
		assert.Equal(t, "shared", cfg.CheckoutMode)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		tests := []struct {
			name string
			doc  string
		}{
			{"zero workers", `{"workers":0}`},
			{"unknown checkout mode", `{"checkout_mode":"tmpfs"}`},
			{"unknown language", `{"language":"fr"}`},
			{"bad timeout", `{"command_timeout":"soon"}`},
			{"negative ttl", `{"cache_ttl":"-1h"}`},
			{"malformed json", `{"workers":`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				clearEnv(t)
				path := filepath.Join(t.TempDir(), "config.json")
				require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0600))

				_, err := LoadConfig(path)

				assert.ErrorIs(t, err, domainErrors.ErrInvalidConfig)
			})
		}
	})

	t.Run("should reject a non numeric worker override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REPOCHECK_WORKERS", "many")

		_, err := LoadConfig(t.TempDir())

		assert.ErrorIs(t, err, domainErrors.ErrInvalidConfig)
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("should round trip through disk", func(t *testing.T) {
		clearEnv(t)
		cfg := Default()
		cfg.PathFile = filepath.Join(t.TempDir(), "config.json")
		cfg.Workers = 3

		require.NoError(t, SaveConfig(cfg))
		loaded, err := LoadConfig(cfg.PathFile)

		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Workers)
	})

	t.Run("should refuse an invalid config", func(t *testing.T) {
		cfg := Default()
		cfg.PathFile = filepath.Join(t.TempDir(), "config.json")
		cfg.Workers = 0

		assert.ErrorIs(t, SaveConfig(cfg), domainErrors.ErrInvalidConfig)
	})

	t.Run("should require a path", func(t *testing.T) {
		assert.Error(t, SaveConfig(Default()))
	})
}

func TestGetLocaleConfig(t *testing.T) {
	assert.Equal(t, "es", GetLocaleConfig("es"))
	assert.Equal(t, "en", GetLocaleConfig("pt"))
}

func TestConfig_Set(t *testing.T) {
	t.Run("should assign and validate known keys", func(t *testing.T) {
		cfg := Default()

		require.NoError(t, cfg.Set("workers", "8"))
		require.NoError(t, cfg.Set("checkout_mode", "SHARED"))
		require.NoError(t, cfg.Set("images.python", "python:3.12-slim"))
		require.NoError(t, cfg.Set("lang", "es"))

		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, "shared", cfg.CheckoutMode)
		assert.Equal(t, "python:3.12-slim", cfg.Images.Python)
		assert.Equal(t, "es", cfg.Language)
	})

	t.Run("should leave the config untouched on invalid values", func(t *testing.T) {
		cfg := Default()

		assert.ErrorIs(t, cfg.Set("workers", "0"), domainErrors.ErrInvalidConfig)
		assert.ErrorIs(t, cfg.Set("workers", "many"), domainErrors.ErrInvalidConfig)
		assert.ErrorIs(t, cfg.Set("cache_ttl", "-1h"), domainErrors.ErrInvalidConfig)
		assert.ErrorIs(t, cfg.Set("colour", "blue"), domainErrors.ErrInvalidConfig)

		assert.Equal(t, Default(), cfg)
	})
}

func TestConfig_Get(t *testing.T) {
	cfg := Default()

	for _, key := range Keys {
		_, ok := cfg.Get(key)
		assert.True(t, ok, key)
	}

	workers, _ := cfg.Get("workers")
	assert.Equal(t, "4", workers)

	_, ok := cfg.Get("nope")
	assert.False(t, ok)
}

func TestReadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0600))

	cfg, err := ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, path, cfg.PathFile)
}
