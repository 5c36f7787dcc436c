// Package config loads gateway configuration from a YAML file with
// environment overrides. The mode value is consumed exactly once at
// process start; nothing in this package supports changing it later.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"gopkg.in/yaml.v3"
)

// Backend holds the observability API connection settings. The API key is
// opaque: provisioned out of band and passed through unchanged.
type Backend struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Redact holds the reloadable redaction settings for the audit trail.
type Redact struct {
	ExtraKeys     []string `yaml:"extra_keys"`
	MaxValueBytes int      `yaml:"max_value_bytes"`
}

// Config is the full gateway configuration.
type Config struct {
	// Mode is the raw operating-mode token; resolution to the safe
	// default happens in the mode package.
	Mode     string  `yaml:"mode"`
	AuditLog string  `yaml:"audit_log"`
	Backend  Backend `yaml:"backend"`
	Redact   Redact  `yaml:"redact"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode:     "",
		AuditLog: defaultAuditLogPath(),
		Backend: Backend{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 30,
		},
	}
}

func defaultAuditLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "obsgate-audit.jsonl")
	}
	return filepath.Join(home, ".obsgate", "audit.jsonl")
}

// Load reads configuration from a YAML file and returns it together with
// the SHA-256 hash of the raw file bytes. Empty path falls back to
// ~/.obsgate/config.yaml; a missing file yields defaults with the hash of
// empty input. Environment variables override the file:
// OBSGATE_MODE, OBSGATE_API_URL, OBSGATE_API_KEY, OBSGATE_AUDIT_LOG.
func Load(path string) (*Config, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".obsgate", "config.yaml")
		}
	}

	cfg := Default()
	var raw []byte

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			raw = data
			// Defaults first; YAML overwrites only specified fields.
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, "", fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			return nil, "", fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	h := sha256.Sum256(raw)
	return cfg, "sha256:" + hex.EncodeToString(h[:]), nil
}

func applyEnv(cfg *Config) {
	cfg.Mode = env.GetString("OBSGATE_MODE", cfg.Mode)
	cfg.AuditLog = env.GetString("OBSGATE_AUDIT_LOG", cfg.AuditLog)
	cfg.Backend.BaseURL = env.GetString("OBSGATE_API_URL", cfg.Backend.BaseURL)
	cfg.Backend.APIKey = env.GetString("OBSGATE_API_KEY", cfg.Backend.APIKey)
}
