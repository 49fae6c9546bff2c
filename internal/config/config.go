package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		GitHubToken    string `json:"github_token,omitempty" yaml:"github_token,omitempty"`
		GitHubBaseURL  string `json:"github_base_url,omitempty" yaml:"github_base_url,omitempty"`
		Language       string `json:"language" yaml:"language"`
		Workers        int    `json:"workers" yaml:"workers"`
		WorkDir        string `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`
		CheckoutMode   string `json:"checkout_mode" yaml:"checkout_mode"`
		CommandTimeout string `json:"command_timeout" yaml:"command_timeout"`
		CacheTTL       string `json:"cache_ttl" yaml:"cache_ttl"`
		Images         Images `json:"images" yaml:"images"`

		PathFile string `json:"-" yaml:"-"`
	}

	// Images overrides the container image of each language.
	Images struct {
		DotNet string `json:"dotnet,omitempty" yaml:"dotnet,omitempty"`
		Python string `json:"python,omitempty" yaml:"python,omitempty"`
		Java   string `json:"java,omitempty" yaml:"java,omitempty"`
	}
)

const (
	defaultLang           = LangEN
	defaultWorkers        = 4
	defaultCheckoutMode   = "ephemeral"
	defaultCommandTimeout = "10m"
	defaultCacheTTL       = "24h"

	configDirName  = ".repocheck"
	configFileName = "config.json"
)

var checkoutModes = map[string]bool{"ephemeral": true, "shared": true}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Language:       defaultLang,
		Workers:        defaultWorkers,
		CheckoutMode:   defaultCheckoutMode,
		CommandTimeout: defaultCommandTimeout,
		CacheTTL:       defaultCacheTTL,
	}
}

// LoadConfig reads the configuration file at path, or <path>/.repocheck/config.json
// when path is a directory such as the user's home. A missing file is
// created with defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	configPath := path
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		configPath = filepath.Join(path, configDirName, configFileName)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err := createDefaultConfig(configPath)
		if err != nil {
			return nil, err
		}
		applyEnv(config)
		return config, validateConfig(config)
	} else if err != nil {
		return nil, fmt.Errorf("error checking configuration file: %w", err)
	}

	config, err := ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ReadFile decodes the file at path over the defaults without applying
// environment overrides, so it can be edited and saved back.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	config := Default()
	if err := decode(path, data, config); err != nil {
		return nil, domainErrors.ErrInvalidConfig.
			WithError(err).
			WithContext("path", path)
	}
	config.PathFile = path
	return config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := Default()
	config.PathFile = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating configuration directory: %w", err)
	}

	data, err := encode(path, config)
	if err != nil {
		return nil, fmt.Errorf("error encoding default configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("error saving default configuration: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	if config.PathFile == "" {
		return errors.New("configuration file path is not set")
	}

	data, err := encode(config.PathFile, config)
	if err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0600); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	return nil
}

// Timeout returns the per-command bound; zero disables it.
func (c *Config) Timeout() time.Duration {
	d, _ := parseDuration(c.CommandTimeout)
	return d
}

// TTL returns how long evaluation results are cached; zero disables it.
func (c *Config) TTL() time.Duration {
	d, _ := parseDuration(c.CacheTTL)
	return d
}

func applyEnv(config *Config) {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		config.GitHubToken = v
	}
	if v := os.Getenv("REPOCHECK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Workers = n
		} else {
			config.Workers = -1
		}
	}
	if v := os.Getenv("REPOCHECK_WORK_DIR"); v != "" {
		config.WorkDir = v
	}
	if v := os.Getenv("REPOCHECK_CHECKOUT_MODE"); v != "" {
		config.CheckoutMode = v
	}
}

func validateConfig(config *Config) error {
	invalid := func(reason string) error {
		return domainErrors.ErrInvalidConfig.
			WithContext("reason", reason).
			WithContext("path", config.PathFile)
	}

	if config.Workers < 1 {
		return invalid("workers must be at least 1")
	}
	if !checkoutModes[strings.ToLower(config.CheckoutMode)] {
		return invalid(fmt.Sprintf("unknown checkout mode %q", config.CheckoutMode))
	}
	if config.Language == "" {
		return invalid("language cannot be empty")
	}
	if !IsSupportedLanguage(config.Language) {
		return invalid(fmt.Sprintf("unsupported language %q", config.Language))
	}
	if _, err := parseDuration(config.CommandTimeout); err != nil {
		return invalid(fmt.Sprintf("invalid command_timeout %q", config.CommandTimeout))
	}
	if _, err := parseDuration(config.CacheTTL); err != nil {
		return invalid(fmt.Sprintf("invalid cache_ttl %q", config.CacheTTL))
	}
	return nil
}

// parseDuration accepts Go duration strings plus a bare "0".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, config *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, config)
	}
	return json.Unmarshal(data, config)
}

func encode(path string, config *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}

// Keys lists the names accepted by Set, in display order.
var Keys = []string{
	"language",
	"workers",
	"work_dir",
	"checkout_mode",
	"command_timeout",
	"cache_ttl",
	"github_base_url",
	"github_token",
	"images.dotnet",
	"images.python",
	"images.java",
}

// Set assigns one key from its string form and validates the result. The
// configuration is left untouched when the value is rejected.
func (c *Config) Set(key, value string) error {
	updated := *c
	value = strings.TrimSpace(value)

	switch strings.ToLower(key) {
	case "language", "lang":
		updated.Language = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return domainErrors.ErrInvalidConfig.WithError(err).WithContext("key", key)
		}
		updated.Workers = n
	case "work_dir":
		updated.WorkDir = value
	case "checkout_mode":
		updated.CheckoutMode = strings.ToLower(value)
	case "command_timeout":
		updated.CommandTimeout = value
	case "cache_ttl":
		updated.CacheTTL = value
	case "github_base_url":
		updated.GitHubBaseURL = value
	case "github_token", "token":
		updated.GitHubToken = value
	case "images.dotnet":
		updated.Images.DotNet = value
	case "images.python":
		updated.Images.Python = value
	case "images.java":
		updated.Images.Java = value
	default:
		return domainErrors.ErrInvalidConfig.WithContext("reason", fmt.Sprintf("unknown key %q", key))
	}

	if err := validateConfig(&updated); err != nil {
		return err
	}
	*c = updated
	return nil
}

// Get returns the string form of key, or false for an unknown key.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "language", "lang":
		return c.Language, true
	case "workers":
		return strconv.Itoa(c.Workers), true
	case "work_dir":
		return c.WorkDir, true
	case "checkout_mode":
		return c.CheckoutMode, true
	case "command_timeout":
		return c.CommandTimeout, true
	case "cache_ttl":
		return c.CacheTTL, true
	case "github_base_url":
		return c.GitHubBaseURL, true
	case "github_token", "token":
		return c.GitHubToken, true
	case "images.dotnet":
		return c.Images.DotNet, true
	case "images.python":
		return c.Images.Python, true
	case "images.java":
		return c.Images.Java, true
	default:
		return "", false
	}
}
