package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, hash, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected default base URL %q", cfg.Backend.BaseURL)
	}
	if cfg.Mode != "" {
		t.Fatalf("expected empty default mode, got %q", cfg.Mode)
	}
	if hash == "" {
		t.Fatal("expected a hash even for defaults")
	}
}

func TestLoadOverlaysYAMLOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `mode: readwrite
backend:
  base_url: https://api.example.com
  api_key: key-abc
redact:
  extra_keys: [tenant]
  max_value_bytes: 128
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, hash, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "readwrite" {
		t.Fatalf("expected readwrite, got %q", cfg.Mode)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" || cfg.Backend.APIKey != "key-abc" {
		t.Fatalf("unexpected backend config: %+v", cfg.Backend)
	}
	// Unspecified fields keep defaults.
	if cfg.Backend.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout, got %d", cfg.Backend.TimeoutSeconds)
	}
	if len(cfg.Redact.ExtraKeys) != 1 || cfg.Redact.ExtraKeys[0] != "tenant" {
		t.Fatalf("unexpected redact keys: %v", cfg.Redact.ExtraKeys)
	}

	_, hash2, _ := Load(path)
	if hash != hash2 {
		t.Fatal("expected stable hash for unchanged file")
	}
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("mode: [unclosed"), 0600)
	if _, _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("mode: readwrite\n"), 0600)

	t.Setenv("OBSGATE_MODE", "read-only")
	t.Setenv("OBSGATE_API_KEY", "env-key")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "read-only" {
		t.Fatalf("expected env mode override, got %q", cfg.Mode)
	}
	if cfg.Backend.APIKey != "env-key" {
		t.Fatalf("expected env key override, got %q", cfg.Backend.APIKey)
	}
}

func TestHashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.yaml")
	p2 := filepath.Join(dir, "b.yaml")
	os.WriteFile(p1, []byte("mode: rw\n"), 0600)
	os.WriteFile(p2, []byte("mode: write\n"), 0600)

	_, h1, _ := Load(p1)
	_, h2, _ := Load(p2)
	if h1 == h2 {
		t.Fatal("expected different hashes for different files")
	}
}
