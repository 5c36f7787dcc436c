package audit

import (
	"fmt"
	"os"
	"sync"

	"github.com/obsgate/obsgate/internal/mode"
)

// Trail is the single audit writer for the process. It is constructed once
// at startup and handed to the dispatcher explicitly; nothing obtains it
// through a global. A nil Log disables the trail, which keeps the gating
// core testable without a filesystem.
//
// Read-class calls never reach the Trail: the dispatcher only routes
// write-class activity and denials here.
type Trail struct {
	log *Log

	mu       sync.RWMutex
	settings RedactSettings
}

// NewTrail wraps a log with redaction settings.
func NewTrail(log *Log, settings RedactSettings) *Trail {
	return &Trail{log: log, settings: settings}
}

// SetRedactSettings swaps the redaction settings. Called by the config
// reloader; the mode is never part of what reloads.
func (t *Trail) SetRedactSettings(settings RedactSettings) {
	t.mu.Lock()
	t.settings = settings
	t.mu.Unlock()
}

func (t *Trail) redact(input map[string]any) map[string]any {
	t.mu.RLock()
	settings := t.settings
	t.mu.RUnlock()
	return Redact(input, settings)
}

func (t *Trail) record(entry Entry) {
	if t.log == nil {
		return
	}
	if err := t.log.Record(entry); err != nil {
		// The sink must never corrupt the response channel; report on
		// stderr and keep serving.
		fmt.Fprintf(os.Stderr, "audit: record failed: %v\n", err)
	}
}

// RecordModeInit writes the one-shot startup entry: resolved mode and the
// count of permitted operations.
func (t *Trail) RecordModeInit(m mode.Mode, permittedOps int) {
	t.record(Entry{
		Phase:        PhaseModeInit,
		Mode:         string(m),
		PermittedOps: permittedOps,
	})
}

// RecordDenial records a capability-gate rejection of a write-class call.
func (t *Trail) RecordDenial(operation string, m mode.Mode) {
	t.record(Entry{
		Phase:     PhaseDeniedPermission,
		Operation: operation,
		Mode:      string(m),
	})
}

// RecordConfirmationDenial records an irreversible call rejected for a
// missing confirmation flag.
func (t *Trail) RecordConfirmationDenial(operation string, input map[string]any) {
	t.record(Entry{
		Phase:     PhaseDeniedConfirmation,
		Operation: operation,
		Input:     t.redact(input),
	})
}

// RecordStart marks a write-class call immediately before its handler
// runs. Record fsyncs, so the start entry is durable before the handler
// can produce a success or error entry.
func (t *Trail) RecordStart(invocationID, operation string, input map[string]any) {
	t.record(Entry{
		Phase:        PhaseStart,
		Operation:    operation,
		InvocationID: invocationID,
		Input:        t.redact(input),
	})
}

// RecordSuccess marks a write-class handler returning without error.
// Detail carries the salient identifier extracted by the operation's
// summarizer; empty when no summarizer is registered.
func (t *Trail) RecordSuccess(invocationID, operation string, input map[string]any, detail string, durationMs int64) {
	t.record(Entry{
		Phase:        PhaseSuccess,
		Operation:    operation,
		InvocationID: invocationID,
		Input:        t.redact(input),
		Detail:       detail,
		DurationMs:   durationMs,
	})
}

// RecordError marks a write-class handler failure.
func (t *Trail) RecordError(invocationID, operation string, input map[string]any, errMsg string, durationMs int64) {
	t.record(Entry{
		Phase:        PhaseError,
		Operation:    operation,
		InvocationID: invocationID,
		Input:        t.redact(input),
		Error:        errMsg,
		DurationMs:   durationMs,
	})
}
