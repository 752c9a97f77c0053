// Package config loads promptpad settings from a YAML file with
// environment-variable overrides. The API credential is the only required
// input; starting without one is a fatal condition.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/errors"
)

const (
	configFileName = "config.yaml"
	defaultModel   = "gpt-4o-mini"
)

// Config holds the settings consumed at initialization
type Config struct {
	APIKey          string `yaml:"api_key"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	Model           string `yaml:"model,omitempty"`
	InitialTemplate string `yaml:"initial_template,omitempty"`
	LibraryDir      string `yaml:"library_dir,omitempty"`
}

// Load reads the config file (if present) and applies environment
// overrides. Precedence: environment > file > defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	path, err := configPath()
	if err == nil {
		if data, readErr := os.ReadFile(path); readErr == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(readErr) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, readErr)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// Validate checks the fatal startup conditions
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.MissingCredentialError()
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROMPTPAD_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PROMPTPAD_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("PROMPTPAD_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PROMPTPAD_DIR"); v != "" {
		cfg.LibraryDir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = completion.DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
}

// configPath returns the config file location, honoring PROMPTPAD_DIR
func configPath() (string, error) {
	if dir := os.Getenv("PROMPTPAD_DIR"); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".promptpad", configFileName), nil
}
