// Package dispatch orchestrates a single call through the capability gate,
// the confirmation guard, the audit trail, and finally the operation
// handler. Nothing here throws past the package boundary: every outcome,
// including a handler panic, becomes a structured Result.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obsgate/obsgate/internal/audit"
	"github.com/obsgate/obsgate/internal/gate"
	"github.com/obsgate/obsgate/internal/mode"
	"github.com/obsgate/obsgate/internal/registry"
)

// Code classifies the terminal state of a dispatched call.
type Code string

const (
	CodeUnknownOperation     Code = "unknown_operation"
	CodePermissionDenied     Code = "permission_denied"
	CodeConfirmationRequired Code = "confirmation_required"
	CodeHandlerError         Code = "handler_error"
)

// Result is the structured outcome of one call. OK carries the handler
// payload verbatim; otherwise Code and Message explain the failure well
// enough for the caller to self-correct.
type Result struct {
	OK      bool   `json:"ok"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Dispatcher is the single entry point for named calls. The audit trail
// is injected at construction; there is no ambient global to reach for.
type Dispatcher struct {
	reg   *registry.Registry
	gate  *gate.Gate
	trail *audit.Trail
}

// New wires a dispatcher over the catalog, gate, and trail.
func New(reg *registry.Registry, g *gate.Gate, trail *audit.Trail) *Dispatcher {
	return &Dispatcher{reg: reg, gate: g, trail: trail}
}

// Mode returns the process-wide operating mode, for capability reporting.
func (d *Dispatcher) Mode() mode.Mode {
	return d.gate.Mode()
}

// Dispatch runs one named call against its raw input map.
//
// Call lifecycle: permission check, confirmation check for irreversible
// operations, start marker, handler, success-or-error marker. Read-class
// calls skip the audit states entirely. The runtime permission check here
// is independent of the declared tool list the transport advertises, so a
// misconfiguration in one layer cannot silently grant access.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, input map[string]any) Result {
	desc, ok := d.reg.Lookup(name)
	if !ok {
		// Nothing to attribute an audit entry to.
		return Result{
			Code:    CodeUnknownOperation,
			Message: fmt.Sprintf("unknown operation %q", name),
		}
	}

	if !d.gate.Permitted(name) {
		if desc.Class == registry.ClassWrite {
			d.trail.RecordDenial(name, d.gate.Mode())
		}
		return Result{
			Code: CodePermissionDenied,
			Message: fmt.Sprintf("operation %q requires %s mode; the gateway is running in %s mode",
				name, mode.ReadWrite, d.gate.Mode()),
		}
	}

	if gate.NeedsConfirmation(desc) && !gate.Confirmed(input) {
		d.trail.RecordConfirmationDenial(name, input)
		return Result{
			Code: CodeConfirmationRequired,
			Message: fmt.Sprintf("operation %q is irreversible; set %q to true to proceed",
				name, gate.ConfirmedKey),
		}
	}

	writeClass := desc.Class == registry.ClassWrite

	var invocationID string
	var started time.Time
	if writeClass {
		invocationID = uuid.NewString()
		d.trail.RecordStart(invocationID, name, input)
		started = time.Now()
	}

	payload, err := invoke(ctx, desc, input)
	if err != nil {
		if writeClass {
			d.trail.RecordError(invocationID, name, input, err.Error(), time.Since(started).Milliseconds())
		}
		return Result{
			Code:    CodeHandlerError,
			Message: err.Error(),
		}
	}

	if writeClass {
		var detail string
		if desc.Summarize != nil {
			detail = desc.Summarize(payload)
		}
		d.trail.RecordSuccess(invocationID, name, input, detail, time.Since(started).Milliseconds())
	}

	return Result{OK: true, Payload: payload}
}

// invoke runs the handler and converts a panic into an error so it cannot
// escape to the transport.
func invoke(ctx context.Context, desc registry.Descriptor, input map[string]any) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %q panicked: %v", desc.Name, r)
		}
	}()
	return desc.Handler(ctx, input)
}
