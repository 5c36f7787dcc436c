package mcp

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/obsgate/obsgate/internal/audit"
	"github.com/obsgate/obsgate/internal/mode"
)

func newTestServer(t *testing.T, rawMode string) *Server {
	t.Helper()
	dir := t.TempDir()
	s, err := New(Config{
		ConfigPath:       filepath.Join(dir, "absent.yaml"),
		ModeOverride:     rawMode,
		AuditLogOverride: filepath.Join(dir, "audit.jsonl"),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func auditEntries(t *testing.T, path string) []audit.Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	var entries []audit.Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e audit.Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("parse: %v", err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestReadOnlyServerAdvertisesOnlyReads(t *testing.T) {
	s := newTestServer(t, "")
	if s.Mode() != mode.ReadOnly {
		t.Fatalf("expected read-only, got %s", s.Mode())
	}
	if got := s.PermittedCount(); got != 7 {
		t.Fatalf("expected 7 read operations, got %d", got)
	}
}

func TestReadWriteServerAdvertisesEverything(t *testing.T) {
	s := newTestServer(t, "ReadWrite")
	if s.Mode() != mode.ReadWrite {
		t.Fatalf("expected read-write, got %s", s.Mode())
	}
	if got := s.PermittedCount(); got != 14 {
		t.Fatalf("expected 14 operations, got %d", got)
	}
}

func TestStartupWritesModeInitEntry(t *testing.T) {
	s := newTestServer(t, "rw")

	entries := auditEntries(t, s.AuditLogPath())
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 entry at boot, got %d", len(entries))
	}
	e := entries[0]
	if e.Phase != audit.PhaseModeInit {
		t.Fatalf("expected mode_init, got %s", e.Phase)
	}
	if e.Mode != string(mode.ReadWrite) || e.PermittedOps != 14 {
		t.Fatalf("unexpected mode_init entry: %+v", e)
	}
}

func TestReloadRedactSettings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	os.WriteFile(cfgPath, []byte("mode: rw\n"), 0600)

	s, err := New(Config{
		ConfigPath:       cfgPath,
		AuditLogOverride: filepath.Join(dir, "audit.jsonl"),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer s.Close()

	os.WriteFile(cfgPath, []byte("mode: rw\nredact:\n  extra_keys: [tenant]\n"), 0600)
	if err := s.ReloadRedactSettings(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	// Mode stays fixed even though reload re-read the file.
	if s.Mode() != mode.ReadWrite {
		t.Fatalf("mode changed across reload: %s", s.Mode())
	}
}

func TestToMapDropsOmittedFields(t *testing.T) {
	type in struct {
		Query     string `json:"query"`
		Confirmed bool   `json:"confirmed,omitempty"`
	}
	m, err := toMap(in{Query: "x"})
	if err != nil {
		t.Fatalf("toMap: %v", err)
	}
	if m["query"] != "x" {
		t.Fatalf("unexpected map: %v", m)
	}
	if _, present := m["confirmed"]; present {
		t.Fatal("expected omitted false flag to be absent")
	}

	m2, _ := toMap(in{Query: "x", Confirmed: true})
	if m2["confirmed"] != true {
		t.Fatalf("expected literal true to survive, got %v", m2["confirmed"])
	}
}
