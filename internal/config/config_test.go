package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/errors"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	original := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() { os.Setenv(key, original) })
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "PROMPTPAD_DIR", t.TempDir())
	setEnv(t, "PROMPTPAD_API_KEY", "")
	setEnv(t, "PROMPTPAD_ENDPOINT", "")
	setEnv(t, "PROMPTPAD_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Endpoint != completion.DefaultEndpoint {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, "PROMPTPAD_DIR", dir)
	setEnv(t, "PROMPTPAD_API_KEY", "")
	setEnv(t, "PROMPTPAD_ENDPOINT", "")
	setEnv(t, "PROMPTPAD_MODEL", "")

	configData := `api_key: sk-from-file
model: gpt-4o
initial_template: "Summarize {text}"
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configData), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIKey != "sk-from-file" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.InitialTemplate != "Summarize {text}" {
		t.Errorf("InitialTemplate = %q", cfg.InitialTemplate)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, "PROMPTPAD_DIR", dir)
	setEnv(t, "PROMPTPAD_API_KEY", "sk-from-env")
	setEnv(t, "PROMPTPAD_MODEL", "gpt-4o-mini")
	setEnv(t, "PROMPTPAD_ENDPOINT", "http://localhost:9999/v1/chat/completions")

	configData := "api_key: sk-from-file\nmodel: gpt-4o\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configData), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Endpoint != "http://localhost:9999/v1/chat/completions" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
}

func TestValidateRequiresCredential(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if !errors.HasCode(err, errors.ErrCodeMissingCredential) {
		t.Errorf("expected MISSING_CREDENTIAL, got %v", err)
	}

	cfg.APIKey = "sk-x"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with key failed: %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, "PROMPTPAD_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_key: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
