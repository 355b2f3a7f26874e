package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Language != "en" || cfg.Theme != "tide" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigAppliesFileAndBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := "endpoint_url: https://example.test/hook\napi_key: secret\nlanguage: es\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.EndpointURL != "https://example.test/hook" || cfg.APIKey != "secret" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Language != "es" {
		t.Fatalf("language = %q", cfg.Language)
	}
	if cfg.Theme != "tide" {
		t.Fatalf("theme default not backfilled: %q", cfg.Theme)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	in := Config{EndpointURL: "https://example.test", Language: "en", Theme: "ember", LogLevel: "debug"}
	if err := SaveConfig(in, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", out, in)
	}
}
