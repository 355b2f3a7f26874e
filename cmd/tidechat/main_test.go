package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	body := "endpoint_url: https://file.example/chat\napi_key: file-key\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	flagConfig = path
	t.Cleanup(func() { flagConfig = "" })
	t.Setenv("TIDECHAT_ENDPOINT", "https://env.example/chat")
	t.Setenv("TIDECHAT_API_KEY", "env-key")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Both env vars follow the same rule: env wins over the file.
	if cfg.EndpointURL != "https://env.example/chat" {
		t.Fatalf("endpoint = %q, want env value", cfg.EndpointURL)
	}
	if cfg.APIKey != "env-key" {
		t.Fatalf("api key = %q, want env value", cfg.APIKey)
	}
}

func TestLoadConfigEnvFillsMissingValues(t *testing.T) {
	flagConfig = filepath.Join(t.TempDir(), "missing.yml")
	t.Cleanup(func() { flagConfig = "" })
	t.Setenv("TIDECHAT_ENDPOINT", "https://env.example/chat")
	t.Setenv("TIDECHAT_API_KEY", "env-key")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EndpointURL != "https://env.example/chat" || cfg.APIKey != "env-key" {
		t.Fatalf("endpoint = %q, api key = %q", cfg.EndpointURL, cfg.APIKey)
	}
}
