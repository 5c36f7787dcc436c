package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obsgate/obsgate/internal/mode"
)

func newTestTrail(t *testing.T) (*Trail, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trail.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return NewTrail(l, RedactSettings{}), path
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("parse entry: %v", err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestRecordModeInit(t *testing.T) {
	trail, path := newTestTrail(t)
	trail.RecordModeInit(mode.ReadOnly, 7)

	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Phase != PhaseModeInit {
		t.Fatalf("expected mode_init phase, got %s", e.Phase)
	}
	if e.Mode != "read-only" || e.PermittedOps != 7 {
		t.Fatalf("unexpected mode_init fields: %+v", e)
	}
	if e.Timestamp == "" {
		t.Fatal("expected timestamp")
	}
}

func TestStartThenSuccessOrdering(t *testing.T) {
	trail, path := newTestTrail(t)
	input := map[string]any{"monitor_id": "mon-1", "confirmed": true}

	trail.RecordStart("inv-1", "delete_monitor", input)
	trail.RecordSuccess("inv-1", "delete_monitor", input, "mon-1", 42)

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Phase != PhaseStart || entries[1].Phase != PhaseSuccess {
		t.Fatalf("expected start then success, got %s then %s", entries[0].Phase, entries[1].Phase)
	}
	if entries[0].Operation != entries[1].Operation {
		t.Fatal("expected both entries to reference the same operation")
	}
	if entries[0].InvocationID != "inv-1" || entries[1].InvocationID != "inv-1" {
		t.Fatal("expected matching invocation IDs")
	}
	if entries[0].Timestamp > entries[1].Timestamp {
		t.Fatalf("start timestamp %s after success timestamp %s", entries[0].Timestamp, entries[1].Timestamp)
	}
	if entries[1].Detail != "mon-1" {
		t.Fatalf("expected summarizer detail mon-1, got %q", entries[1].Detail)
	}
	if entries[1].DurationMs != 42 {
		t.Fatalf("expected duration 42, got %d", entries[1].DurationMs)
	}
}

func TestRecordErrorCarriesMessage(t *testing.T) {
	trail, path := newTestTrail(t)
	trail.RecordStart("inv-2", "create_monitor", map[string]any{"name": "cpu"})
	trail.RecordError("inv-2", "create_monitor", map[string]any{"name": "cpu"}, "backend returned 503", 120)

	entries := readEntries(t, path)
	e := entries[1]
	if e.Phase != PhaseError {
		t.Fatalf("expected error phase, got %s", e.Phase)
	}
	if e.Error != "backend returned 503" {
		t.Fatalf("unexpected error message %q", e.Error)
	}
	if e.DurationMs != 120 {
		t.Fatalf("expected duration 120, got %d", e.DurationMs)
	}
}

func TestDenialEntries(t *testing.T) {
	trail, path := newTestTrail(t)
	trail.RecordDenial("delete_monitor", mode.ReadOnly)
	trail.RecordConfirmationDenial("delete_monitor", map[string]any{"monitor_id": "mon-9"})

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Phase != PhaseDeniedPermission || entries[0].Mode != "read-only" {
		t.Fatalf("unexpected denial entry: %+v", entries[0])
	}
	if entries[1].Phase != PhaseDeniedConfirmation {
		t.Fatalf("unexpected confirmation denial entry: %+v", entries[1])
	}
}

func TestTrailRedactsOnEveryPath(t *testing.T) {
	trail, path := newTestTrail(t)
	input := map[string]any{"content": "hello", "secretKey": "sk-abc"}

	trail.RecordStart("inv-3", "create_event", input)
	trail.RecordSuccess("inv-3", "create_event", input, "", 5)
	trail.RecordError("inv-4", "create_event", input, "boom", 5)
	trail.RecordConfirmationDenial("delete_monitor", input)

	raw, _ := os.ReadFile(path)
	if len(raw) == 0 {
		t.Fatal("expected entries written")
	}
	if strings.Contains(string(raw), "sk-abc") {
		t.Fatal("audit sink contains the raw secret value")
	}
	for _, e := range readEntries(t, path) {
		if e.Input["secretKey"] != RedactedMarker {
			t.Fatalf("phase %s: expected redaction marker, got %v", e.Phase, e.Input["secretKey"])
		}
	}
}

func TestNilLogTrailIsNoOp(t *testing.T) {
	trail := NewTrail(nil, RedactSettings{})
	trail.RecordModeInit(mode.ReadWrite, 14)
	trail.RecordStart("inv", "create_monitor", nil)
	trail.RecordSuccess("inv", "create_monitor", nil, "", 1)
	// Nothing to assert beyond not panicking.
}

func TestSetRedactSettingsApplies(t *testing.T) {
	trail, path := newTestTrail(t)
	trail.SetRedactSettings(RedactSettings{ExtraKeys: []string{"tenant"}})
	trail.RecordStart("inv-5", "create_event", map[string]any{"tenant_id": "t-1"})

	entries := readEntries(t, path)
	if entries[0].Input["tenant_id"] != RedactedMarker {
		t.Fatalf("expected reloaded extra key redacted, got %v", entries[0].Input["tenant_id"])
	}
}
