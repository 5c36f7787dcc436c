package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestLog(t *testing.T) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	return l, path
}

func testEntry(phase Phase) Entry {
	return Entry{
		Phase:     phase,
		Operation: "delete_monitor",
		Input:     map[string]any{"monitor_id": "mon-123"},
	}
}

func TestSequentialWritesProduceValidChain(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 5; i++ {
		if err := l.Record(testEntry(PhaseStart)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTamperedEntry(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 3; i++ {
		if err := l.Record(testEntry(PhaseSuccess)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	// Tamper: rewrite the phase in line 2.
	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	lines[1] = strings.Replace(lines[1], `"success"`, `"error"`, 1)
	os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if result.ErrorLine != 3 {
		t.Fatalf("expected error at line 3, got line %d", result.ErrorLine)
	}
}

func TestVerifyDetectsDeletedEntry(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 3; i++ {
		if err := l.Record(testEntry(PhaseStart)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	remaining := []string{lines[0], lines[2]}
	os.WriteFile(path, []byte(strings.Join(remaining, "\n")+"\n"), 0644)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected chain with deleted entry to be invalid")
	}
	if result.ErrorLine != 2 {
		t.Fatalf("expected error at line 2, got line %d", result.ErrorLine)
	}
}

func TestVerifyDetectsInsertedEntry(t *testing.T) {
	l, path := newTestLog(t)

	for i := 0; i < 3; i++ {
		if err := l.Record(testEntry(PhaseStart)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	l.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	fake := testEntry(PhaseError)
	fake.Timestamp = "2026-01-01T00:00:00.000Z"
	fake.PrevHash = "sha256:fake"
	fakeJSON, _ := json.Marshal(fake)
	inserted := []string{lines[0], string(fakeJSON), lines[1], lines[2]}
	os.WriteFile(path, []byte(strings.Join(inserted, "\n")+"\n"), 0644)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected chain with inserted entry to be invalid")
	}
}

func TestEmptyLogPassesVerification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	os.WriteFile(path, []byte{}, 0644)

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected empty log to be valid, got: %s", result.Error)
	}
	if result.Lines != 0 {
		t.Fatalf("expected 0 lines, got %d", result.Lines)
	}
}

func TestConcurrentWritesSerializeCorrectly(t *testing.T) {
	l, path := newTestLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Record(testEntry(PhaseStart))
		}()
	}
	wg.Wait()
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain after concurrent writes, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 100 {
		t.Fatalf("expected 100 lines, got %d", result.Lines)
	}
}

func TestOpenExistingLogContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.jsonl")

	l1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		l1.Record(testEntry(PhaseStart))
	}
	l1.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		l2.Record(testEntry(PhaseSuccess))
	}
	l2.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain after reopen, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestGenesisHashIsCorrect(t *testing.T) {
	l, path := newTestLog(t)
	l.Record(testEntry(PhaseStart))
	l.Close()

	data, _ := os.ReadFile(path)
	var entry Entry
	json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry)

	if entry.PrevHash != GenesisHash {
		t.Fatalf("expected genesis hash %s, got %s", GenesisHash, entry.PrevHash)
	}
}

func TestHashLineIsDeterministic(t *testing.T) {
	line := []byte(`{"ts":"2026-01-15T10:30:00.000Z","phase":"start","operation":"delete_monitor","prev_hash":"sha256:def"}`)
	h1 := HashLine(line)
	h2 := HashLine(line)
	if h1 != h2 {
		t.Fatalf("expected same hash, got %s and %s", h1, h2)
	}
	if !strings.HasPrefix(h1, "sha256:") {
		t.Fatalf("expected sha256: prefix, got %s", h1)
	}
	if len(h1) != 7+64 {
		t.Fatalf("expected 71 char hash string, got %d", len(h1))
	}
}
