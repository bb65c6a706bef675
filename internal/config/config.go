// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the API key goes to the OS keychain.
//
// Every setting resolves as: command-line flag > environment > config file > default.
package config

import (
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	apperrors "april/cli/internal/errors"
	"april/cli/internal/xdg"
)

// Environment variables read by the CLI.
const (
	EnvAPIURL    = "API_URL"
	EnvAPIKey    = "API_KEY"
	EnvLintModel = "AUTOSE_LINT_MODEL"
	EnvDevModel  = "AUTOSE_DEV_MODEL"
)

// Defaults.
const (
	DefaultAPIURL    = "http://localhost:8000"
	DefaultAPIKey    = "unknown"
	DefaultLintModel = "openai:gpt3"
	DefaultDevModel  = "openai:gpt4"
	DefaultLogLevel  = "info"
)

// Models accepted by the backend for each command.
var (
	LintModels = []string{"openai:gpt3"}
	DevModels  = []string{"openai:gpt4", "openai:gpt4o"}
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL    string `json:"api_url"`
	LintModel string `json:"lint_model"`
	DevModel  string `json:"dev_model"`
	LogLevel  string `json:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		LintModel: DefaultLintModel,
		DevModel:  DefaultDevModel,
		LogLevel:  DefaultLogLevel,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(p)
}

// LoadFrom reads the config file at p. Fields absent from the file keep
// their defaults.
func LoadFrom(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), err
	}
	return c.fill(), nil
}

// SaveTo writes c to p with 0600 permissions.
func SaveTo(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Keys lists the settings stored in the config file, in display order.
var Keys = []string{"api_url", "lint_model", "dev_model", "log_level"}

// Get returns the value of the setting named key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "lint_model":
		return c.LintModel, nil
	case "dev_model":
		return c.DevModel, nil
	case "log_level":
		return c.LogLevel, nil
	}
	return "", unknownKey(key)
}

// Set returns c with the setting named key changed to value. Models are
// checked against the accepted lists; an empty value restores the default.
func (c Config) Set(key, value string) (Config, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return c, apperrors.New(apperrors.InvalidInput, "invalid api url "+value)
			}
		}
		c.APIURL = value
	case "lint_model":
		if value != "" {
			if err := ValidateModel(value, LintModels); err != nil {
				return c, err
			}
		}
		c.LintModel = value
	case "dev_model":
		if value != "" {
			if err := ValidateModel(value, DevModels); err != nil {
				return c, err
			}
		}
		c.DevModel = value
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	default:
		return c, unknownKey(key)
	}
	return c.fill(), nil
}

func unknownKey(key string) error {
	return apperrors.New(apperrors.InvalidInput,
		"unknown setting "+key+" (choose from "+strings.Join(Keys, ", ")+")")
}

// ApplyEnv overrides c with the environment variables that are set.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLintModel)); v != "" {
		c.LintModel = v
	}
	if v := strings.TrimSpace(getenv(EnvDevModel)); v != "" {
		c.DevModel = v
	}
	return c
}

// fill replaces empty fields with defaults.
func (c Config) fill() Config {
	d := Default()
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.LintModel == "" {
		c.LintModel = d.LintModel
	}
	if c.DevModel == "" {
		c.DevModel = d.DevModel
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// ValidateModel checks model against the allowed list.
func ValidateModel(model string, allowed []string) error {
	if slices.Contains(allowed, model) {
		return nil
	}
	return apperrors.New(apperrors.InvalidInput,
		"unsupported model "+model+" (choose from "+strings.Join(allowed, ", ")+")")
}

// ResolveAPIKey picks the API key: flag, then API_KEY, then the keychain,
// then DefaultAPIKey. A keychain failure falls through to the default.
func ResolveAPIKey(flag string, getenv func(string) string, fromKeychain func() (string, error)) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		return v
	}
	if fromKeychain != nil {
		if v, err := fromKeychain(); err == nil && v != "" {
			return v
		}
	}
	return DefaultAPIKey
}
